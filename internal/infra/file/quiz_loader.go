package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"quiz-helper/internal/domain"
)

// Options controls how quiz files are tokenized.
type Options struct {
	Delimiter       rune
	CommentMarker   string
	CorrectMarker   string
	AnswerSeparator string
	MaxAnswers      int
}

// DefaultOptions matches the quiz file format: `label,question,a:@b:c`.
func DefaultOptions() Options {
	return Options{
		Delimiter:       ',',
		CommentMarker:   "#",
		CorrectMarker:   "@",
		AnswerSeparator: ":",
		MaxAnswers:      7,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Delimiter == 0 {
		o.Delimiter = def.Delimiter
	}
	if o.CommentMarker == "" {
		o.CommentMarker = def.CommentMarker
	}
	if o.CorrectMarker == "" {
		o.CorrectMarker = def.CorrectMarker
	}
	if o.AnswerSeparator == "" {
		o.AnswerSeparator = def.AnswerSeparator
	}
	if o.MaxAnswers <= 0 {
		o.MaxAnswers = def.MaxAnswers
	}
	return o
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// QuizLoader loads quizzes from delimited text files; the quiz ID is the file path.
type QuizLoader struct {
	opts Options
}

func NewQuizLoader(opts Options) *QuizLoader {
	return &QuizLoader{opts: opts.withDefaults()}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, path string) (domain.Quiz, error) {
	quiz, err := LoadFile(path, l.opts)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, path)
	}
	return quiz, err
}

// LoadFile reads and parses the quiz stored at path.
func LoadFile(path string, opts Options) (domain.Quiz, error) {
	if path == "" {
		return domain.Quiz{}, fmt.Errorf("no quiz file chosen")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read quiz file: %w", err)
	}
	quiz, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz.ID = path
	quiz.Source = filepath.Base(path)
	return quiz, nil
}

// Parse reads a quiz from r. Rows are `label,text,answers`; empty rows and rows
// whose first field starts with the comment marker are skipped.
func Parse(r io.Reader, opts Options) (domain.Quiz, error) {
	opts = opts.withDefaults()
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read quiz: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return domain.Quiz{}, &domain.ParseError{Err: domain.ErrEmptyQuiz}
	}
	if !utf8.Valid(data) {
		return domain.Quiz{}, domain.ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if marker, size := utf8.DecodeRuneInString(opts.CommentMarker); size == len(opts.CommentMarker) && marker != opts.Delimiter {
		reader.Comment = marker
	}

	var questions []domain.Question
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return domain.Quiz{}, &domain.ParseError{Line: csvErr.Line, Msg: "malformed row", Err: csvErr.Err}
			}
			return domain.Quiz{}, &domain.ParseError{Err: err}
		}
		line, _ := reader.FieldPos(0)
		if skipRecord(record, opts) {
			continue
		}
		if len(record) != 3 {
			return domain.Quiz{}, &domain.ParseError{Line: line, Msg: fmt.Sprintf("wrong # of fields: expected 3, got %d", len(record))}
		}
		answers, correct, err := parseAnswers(record[2], opts)
		if err != nil {
			return domain.Quiz{}, &domain.ParseError{Line: line, Err: err}
		}
		question, err := domain.NewQuestion(record[0], record[1], answers, correct)
		if err != nil {
			return domain.Quiz{}, &domain.ParseError{Line: line, Err: err}
		}
		questions = append(questions, question)
	}

	quiz, err := domain.NewQuiz("", "", questions)
	if err != nil {
		return domain.Quiz{}, &domain.ParseError{Err: err}
	}
	return quiz, nil
}

// skipRecord reports comment rows and rows with no field at all. A blank
// looking row such as "   " or `""` still has a field and must be well formed.
func skipRecord(record []string, opts Options) bool {
	if len(record) == 0 {
		return true
	}
	return strings.HasPrefix(record[0], opts.CommentMarker)
}

// parseAnswers splits the encoded answer field and collects the correct indices.
func parseAnswers(field string, opts Options) ([]string, []int, error) {
	fields := strings.Split(field, opts.AnswerSeparator)
	if len(fields) > opts.MaxAnswers {
		fields = fields[:opts.MaxAnswers]
	}
	answers := make([]string, 0, len(fields))
	var correct []int
	for i, f := range fields {
		if strings.HasPrefix(f, opts.CorrectMarker) {
			f = strings.TrimPrefix(f, opts.CorrectMarker)
			correct = append(correct, i)
		}
		answers = append(answers, f)
	}
	if len(correct) == 0 {
		return nil, nil, fmt.Errorf("questions have at least one correct answer")
	}
	return answers, correct, nil
}
