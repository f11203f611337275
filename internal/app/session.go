package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-helper/internal/domain"
)

// State is a step of the quiz session lifecycle.
type State int

const (
	StateStart State = iota
	StateInProgress
	StateSubmitted
	StateShowingResults
	StateCorrection
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	case StateShowingResults:
		return "showing_results"
	case StateCorrection:
		return "correction"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mark describes how an option is shown when reviewing the correction.
type Mark int

const (
	MarkNeutral Mark = iota
	// MarkCorrectChosen is a correct option the user selected.
	MarkCorrectChosen
	// MarkMissed is a correct option the user left unselected.
	MarkMissed
	// MarkWrongChosen is an incorrect option the user selected.
	MarkWrongChosen
)

func (m Mark) String() string {
	switch m {
	case MarkCorrectChosen:
		return "correct"
	case MarkMissed:
		return "missed"
	case MarkWrongChosen:
		return "wrong"
	default:
		return "neutral"
	}
}

// Session drives one quiz attempt through explicit state transitions:
// Start -> InProgress -> Submitted -> ShowingResults -> Correction, and back
// to Start on Restart.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time
	observer  Observer
	listener  StateListener

	mu        sync.RWMutex
	state     State
	quiz      domain.Quiz
	answers   domain.UserAnswers
	cursor    int
	summary   *domain.ResultSummary
	updatedAt time.Time

	// reported by unlock once mu is released
	pending  []State
	computed *domain.ResultSummary
}

// StateListener is told about every state a session enters.
// It runs without the session lock held.
type StateListener interface {
	SessionTransitioned(session *Session, state State)
}

// NewSession creates a session in the Start state.
func NewSession() *Session {
	return NewSessionWithClock(uuid.NewString(), time.Now)
}

// NewSessionWithClock is test-only for deterministic IDs and timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:        id,
		createdAt: created,
		updatedAt: created,
		now:       now,
		observer:  NopObserver{},
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Quiz returns the quiz being played, if any.
func (s *Session) Quiz() (domain.Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz, s.state != StateStart
}

// Begin starts answering quiz.
func (s *Session) Begin(quiz domain.Quiz) error {
	if quiz.Len() == 0 {
		return domain.ErrEmptyQuiz
	}
	s.mu.Lock()
	defer s.unlock()
	if err := s.expectLocked(StateStart); err != nil {
		return err
	}
	s.quiz = quiz
	s.answers = make(domain.UserAnswers, quiz.Len())
	for i := range s.answers {
		s.answers[i] = domain.Selection{}
	}
	s.cursor = 0
	s.summary = nil
	s.transitionLocked(StateInProgress)
	return nil
}

// Toggle flips option a of question q and returns the new selection.
func (s *Session) Toggle(q, a int) (domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectLocked(StateInProgress); err != nil {
		return nil, err
	}
	if err := s.checkOptionLocked(q, a); err != nil {
		return nil, err
	}
	s.answers[q] = s.answers[q].Toggle(a)
	s.updatedAt = s.now()
	return append(domain.Selection(nil), s.answers[q]...), nil
}

// SetSelection replaces the selection of question q.
func (s *Session) SetSelection(q int, indices ...int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectLocked(StateInProgress); err != nil {
		return err
	}
	for _, a := range indices {
		if err := s.checkOptionLocked(q, a); err != nil {
			return err
		}
	}
	if err := s.checkQuestionLocked(q); err != nil {
		return err
	}
	s.answers[q] = domain.NewSelection(indices...)
	s.updatedAt = s.now()
	return nil
}

// Selection returns the current selection of question q.
func (s *Session) Selection(q int) (domain.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateStart {
		return nil, fmt.Errorf("%w: no quiz in progress", domain.ErrInvalidTransition)
	}
	if err := s.checkQuestionLocked(q); err != nil {
		return nil, err
	}
	return append(domain.Selection(nil), s.answers[q]...), nil
}

// Current returns the index and question under the cursor.
func (s *Session) Current() (int, domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.expectLocked(StateInProgress, StateCorrection); err != nil {
		return 0, domain.Question{}, err
	}
	return s.cursor, s.quiz.Questions[s.cursor], nil
}

// Next moves to the following question; it stays on the last one.
func (s *Session) Next() (int, error) {
	return s.move(1)
}

// Prev moves to the previous question; it stays on the first one.
func (s *Session) Prev() (int, error) {
	return s.move(-1)
}

func (s *Session) move(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectLocked(StateInProgress, StateCorrection); err != nil {
		return 0, err
	}
	target := s.cursor + delta
	if target >= 0 && target < s.quiz.Len() {
		s.cursor = target
	}
	return s.cursor, nil
}

// Goto jumps to question q.
func (s *Session) Goto(q int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectLocked(StateInProgress, StateCorrection); err != nil {
		return err
	}
	if err := s.checkQuestionLocked(q); err != nil {
		return err
	}
	s.cursor = q
	return nil
}

// Submit freezes the answers given so far.
func (s *Session) Submit() (domain.UserAnswers, error) {
	s.mu.Lock()
	defer s.unlock()
	if err := s.expectLocked(StateInProgress); err != nil {
		return nil, err
	}
	s.transitionLocked(StateSubmitted)
	return s.answersCopyLocked(), nil
}

// Results scores the submitted answers. The summary is computed once and
// returned again while results or the correction are shown.
func (s *Session) Results() (domain.ResultSummary, error) {
	s.mu.Lock()
	defer s.unlock()
	if s.summary != nil && (s.state == StateShowingResults || s.state == StateCorrection) {
		return *s.summary, nil
	}
	if err := s.expectLocked(StateSubmitted); err != nil {
		return domain.ResultSummary{}, err
	}
	summary, err := ComputeResults(s.quiz, s.answers)
	if err != nil {
		return domain.ResultSummary{}, err
	}
	s.summary = &summary
	s.computed = &summary
	s.transitionLocked(StateShowingResults)
	return summary, nil
}

// Correction switches to reviewing answers question by question.
func (s *Session) Correction() error {
	s.mu.Lock()
	defer s.unlock()
	if err := s.expectLocked(StateShowingResults); err != nil {
		return err
	}
	s.cursor = 0
	s.transitionLocked(StateCorrection)
	return nil
}

// Review returns the per-option marks of question q once results are known.
func (s *Session) Review(q int) ([]Mark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.expectLocked(StateShowingResults, StateCorrection); err != nil {
		return nil, err
	}
	if err := s.checkQuestionLocked(q); err != nil {
		return nil, err
	}
	return reviewMarks(s.quiz.Questions[q], s.answers[q]), nil
}

// Restart drops the quiz and answers and goes back to Start.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.unlock()
	if err := s.expectLocked(StateShowingResults, StateCorrection); err != nil {
		return err
	}
	s.quiz = domain.Quiz{}
	s.answers = nil
	s.summary = nil
	s.cursor = 0
	s.transitionLocked(StateStart)
	return nil
}

// Answers returns a copy of the selections made so far.
func (s *Session) Answers() domain.UserAnswers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answersCopyLocked()
}

func reviewMarks(question domain.Question, selected domain.Selection) []Mark {
	marks := make([]Mark, question.NumAnswers())
	for i := range marks {
		correct, chosen := question.IsCorrect(i), selected.Contains(i)
		switch {
		case correct && chosen:
			marks[i] = MarkCorrectChosen
		case correct:
			marks[i] = MarkMissed
		case chosen:
			marks[i] = MarkWrongChosen
		}
	}
	return marks
}

func (s *Session) expectLocked(allowed ...State) error {
	for _, state := range allowed {
		if s.state == state {
			return nil
		}
	}
	return fmt.Errorf("%w: session is %s", domain.ErrInvalidTransition, s.state)
}

func (s *Session) transitionLocked(next State) {
	s.state = next
	s.updatedAt = s.now()
	s.pending = append(s.pending, next)
}

// unlock releases mu, then reports what happened while it was held.
func (s *Session) unlock() {
	transitions, computed := s.pending, s.computed
	s.pending, s.computed = nil, nil
	s.mu.Unlock()

	if computed != nil {
		s.observer.ResultsComputed(*computed)
	}
	if s.listener == nil {
		return
	}
	for _, state := range transitions {
		s.listener.SessionTransitioned(s, state)
	}
}

func (s *Session) checkQuestionLocked(q int) error {
	if q < 0 || q >= s.quiz.Len() {
		return fmt.Errorf("%w: %d", domain.ErrQuestionNotFound, q)
	}
	return nil
}

func (s *Session) checkOptionLocked(q, a int) error {
	if err := s.checkQuestionLocked(q); err != nil {
		return err
	}
	if a < 0 || a >= s.quiz.Questions[q].NumAnswers() {
		return fmt.Errorf("%w: question %d option %d", domain.ErrOptionNotFound, q, a)
	}
	return nil
}

func (s *Session) answersCopyLocked() domain.UserAnswers {
	if s.answers == nil {
		return nil
	}
	out := make(domain.UserAnswers, len(s.answers))
	for i, sel := range s.answers {
		out[i] = append(domain.Selection{}, sel...)
	}
	return out
}
