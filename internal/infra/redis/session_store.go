package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-helper/internal/app"
)

const sessionKeyPrefix = "quiz:session:"

// SessionStore keeps sessions in process and mirrors each one's state into
// Redis under a TTL, so operators can see how many quizzes are being played.
// It is an app.StateListener: sessions created by app.QuizService report
// every transition here.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

// Save registers the session and writes its state marker.
func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	s.mark(session)
}

// Get returns the session and refreshes its marker with the current state.
func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		s.mark(session)
	}
	return session, ok
}

// SessionTransitioned records the state a session just entered.
func (s *SessionStore) SessionTransitioned(session *app.Session, state app.State) {
	_ = s.client.Set(context.Background(), sessionKeyPrefix+session.ID(), state.String(), s.ttl).Err()
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), sessionKeyPrefix+sessionID).Err()
}

// mark is best effort; a missing marker never hides a live session.
func (s *SessionStore) mark(session *app.Session) {
	_ = s.client.Set(context.Background(), sessionKeyPrefix+session.ID(), session.State().String(), s.ttl).Err()
}
