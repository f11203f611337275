package domain

import (
	"fmt"
	"sort"
)

// Question models a multiple-choice prompt with one or more correct options.
type Question struct {
	Label          string   `json:"label,omitempty"`
	Text           string   `json:"text"`
	Answers        []string `json:"answers"`
	CorrectAnswers []int    `json:"correctAnswers"`
}

// NewQuestion validates and builds a question. Correct indices are sorted and de-duplicated.
func NewQuestion(label, text string, answers []string, correct []int) (Question, error) {
	if text == "" {
		return Question{}, fmt.Errorf("question cannot have empty text")
	}
	if len(answers) < 1 {
		return Question{}, fmt.Errorf("question must have at least an answer")
	}
	if len(correct) < 1 {
		return Question{}, fmt.Errorf("question must have at least one correct answer")
	}
	for _, idx := range correct {
		if idx < 0 || idx >= len(answers) {
			return Question{}, fmt.Errorf("correct answer index %d out of range [0, %d)", idx, len(answers))
		}
	}
	return Question{
		Label:          label,
		Text:           text,
		Answers:        append([]string(nil), answers...),
		CorrectAnswers: []int(NewSelection(correct...)),
	}, nil
}

// NumAnswers returns the number of options offered by the question.
func (q Question) NumAnswers() int {
	return len(q.Answers)
}

// IsCorrect reports whether option idx is one of the correct answers.
func (q Question) IsCorrect(idx int) bool {
	return Selection(q.CorrectAnswers).Contains(idx)
}

// Correct returns the correct answers as a selection.
func (q Question) Correct() Selection {
	return append(Selection(nil), q.CorrectAnswers...)
}

// Quiz is the ordered collection of questions loaded from one source.
type Quiz struct {
	ID        string     `json:"id"`
	Source    string     `json:"source,omitempty"`
	Questions []Question `json:"questions"`
}

// NewQuiz builds a quiz; a quiz must contain at least a question.
func NewQuiz(id, source string, questions []Question) (Quiz, error) {
	if len(questions) == 0 {
		return Quiz{}, ErrEmptyQuiz
	}
	return Quiz{ID: id, Source: source, Questions: questions}, nil
}

// Len returns the number of questions.
func (q Quiz) Len() int {
	return len(q.Questions)
}

// Selection is a sorted set of answer indices.
type Selection []int

// NewSelection normalizes indices into a sorted set without duplicates.
func NewSelection(indices ...int) Selection {
	if len(indices) == 0 {
		return Selection{}
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, idx := range sorted[1:] {
		if idx != out[len(out)-1] {
			out = append(out, idx)
		}
	}
	return Selection(out)
}

// Contains reports whether idx is part of the selection.
func (s Selection) Contains(idx int) bool {
	i := sort.SearchInts(s, idx)
	return i < len(s) && s[i] == idx
}

// Equal reports whether both selections hold the same indices.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the selections share at least one index.
func (s Selection) Overlaps(other Selection) bool {
	for _, idx := range s {
		if other.Contains(idx) {
			return true
		}
	}
	return false
}

// Toggle returns a copy with idx added or removed.
func (s Selection) Toggle(idx int) Selection {
	if s.Contains(idx) {
		out := make(Selection, 0, len(s)-1)
		for _, v := range s {
			if v != idx {
				out = append(out, v)
			}
		}
		return out
	}
	return NewSelection(append(append([]int(nil), s...), idx)...)
}

// UserAnswers holds one selection per question, in question order.
type UserAnswers []Selection
