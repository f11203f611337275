package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"quiz-helper/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, source string) (domain.Quiz, error)
}

// Observer receives lifecycle notifications, e.g. for metrics.
type Observer interface {
	QuizLoaded(quiz domain.Quiz)
	SessionStarted()
	ResultsComputed(summary domain.ResultSummary)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) QuizLoaded(domain.Quiz) {}

func (NopObserver) SessionStarted() {}

func (NopObserver) ResultsComputed(domain.ResultSummary) {}

// QuizService contains the quiz session use cases.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	observer Observer
	logger   *zap.Logger
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithObserver registers an observer for lifecycle notifications.
func WithObserver(observer Observer) Option {
	return func(s *QuizService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *QuizService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		quizzes:  quizzes,
		observer: NopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession registers an empty session waiting for a quiz to be chosen.
func (s *QuizService) NewSession() *Session {
	session := NewSession()
	session.observer = s.observer
	if listener, ok := s.sessions.(StateListener); ok {
		session.listener = listener
	}
	s.sessions.Save(session)
	s.logger.Debug("session created", zap.String("session", session.ID()))
	return session
}

// LoadQuiz fetches a quiz by source (file path or library id).
func (s *QuizService) LoadQuiz(ctx context.Context, source string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, source)
	if err != nil {
		s.logger.Warn("quiz load failed", zap.String("source", source), zap.Error(err))
		return domain.Quiz{}, err
	}
	s.observer.QuizLoaded(quiz)
	s.logger.Info("quiz is ready", zap.String("source", source), zap.Int("questions", quiz.Len()))
	return quiz, nil
}

// Begin loads source and starts the given session on it.
func (s *QuizService) Begin(ctx context.Context, sessionID, source string) (*Session, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.LoadQuiz(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := session.Begin(quiz); err != nil {
		return nil, err
	}
	s.observer.SessionStarted()
	return session, nil
}

// StartSession creates a session and begins it on source.
func (s *QuizService) StartSession(ctx context.Context, source string) (*Session, error) {
	session := s.NewSession()
	if _, err := s.Begin(ctx, session.ID(), source); err != nil {
		s.sessions.Delete(session.ID())
		return nil, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

// Session looks a session up by ID.
func (s *QuizService) Session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Invalidate drops the cached copy of source, if the repository caches, so
// the next load reads it again.
func (s *QuizService) Invalidate(ctx context.Context, source string) error {
	cache, ok := s.quizzes.(interface {
		Invalidate(ctx context.Context, source string) error
	})
	if !ok {
		return nil
	}
	return cache.Invalidate(ctx, source)
}

// EndSession forgets the session.
func (s *QuizService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
	s.logger.Debug("session ended", zap.String("session", sessionID))
}
