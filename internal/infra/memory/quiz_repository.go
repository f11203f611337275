package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-helper/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (file, database).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, source string) (domain.Quiz, error)
}

// QuizRepository caches parsed quizzes with TTL so a restart does not re-read the source.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

// NewQuizRepository wraps loader with a TTL cache. A zero ttl disables caching.
func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, source string) (domain.Quiz, error) {
	if quiz, ok := r.lookup(source); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		if quiz, ok := r.lookup(source); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, source)
		if err != nil {
			return domain.Quiz{}, err
		}
		if r.ttl <= 0 {
			return quiz, nil
		}

		r.mu.Lock()
		r.cache[source] = cachedQuiz{
			quiz:      quiz,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate drops source from the cache, e.g. after the file was edited.
func (r *QuizRepository) Invalidate(_ context.Context, source string) error {
	r.mu.Lock()
	delete(r.cache, source)
	r.mu.Unlock()
	return nil
}

func (r *QuizRepository) lookup(source string) (domain.Quiz, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[source]; ok && entry.expiresAt.After(now) {
		return entry.quiz, true
	}
	return domain.Quiz{}, false
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, source string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[source]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ttlWithJitterLocked() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
