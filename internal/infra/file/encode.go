package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"quiz-helper/internal/domain"
)

// Encode writes quiz in the delimited format understood by Parse.
func Encode(w io.Writer, quiz domain.Quiz, opts Options) error {
	opts = opts.withDefaults()
	writer := csv.NewWriter(w)
	writer.Comma = opts.Delimiter
	for i, q := range quiz.Questions {
		if len(q.Answers) > opts.MaxAnswers {
			return fmt.Errorf("question %d: %d answers exceed the limit of %d", i+1, len(q.Answers), opts.MaxAnswers)
		}
		if strings.HasPrefix(q.Label, opts.CommentMarker) {
			return fmt.Errorf("question %d: label %q would be read back as a comment", i+1, q.Label)
		}
		encoded := make([]string, len(q.Answers))
		for j, answer := range q.Answers {
			if strings.Contains(answer, opts.AnswerSeparator) {
				return fmt.Errorf("question %d: answer %q contains the separator %q", i+1, answer, opts.AnswerSeparator)
			}
			if strings.HasPrefix(answer, opts.CorrectMarker) {
				return fmt.Errorf("question %d: answer %q starts with the correct marker %q", i+1, answer, opts.CorrectMarker)
			}
			if q.IsCorrect(j) {
				answer = opts.CorrectMarker + answer
			}
			encoded[j] = answer
		}
		if err := writer.Write([]string{q.Label, q.Text, strings.Join(encoded, opts.AnswerSeparator)}); err != nil {
			return fmt.Errorf("write question %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
