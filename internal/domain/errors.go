package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question index is out of range.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates an answer index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrEmptyQuiz is returned when a quiz would contain no question.
	ErrEmptyQuiz = errors.New("quiz should contain at least a question")
	// ErrInvalidEncoding is returned when a quiz file is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("quiz file is not valid utf-8 text")
	// ErrInvalidTransition is returned when a session operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrSourceNotAllowed is returned when a quiz source points outside the served quiz directory.
	ErrSourceNotAllowed = errors.New("quiz source not allowed")
)

// ParseError reports a malformed quiz source.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, msg)
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports user answers that do not match the quiz.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
