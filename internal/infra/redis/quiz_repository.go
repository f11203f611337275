package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quiz-helper/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (file, database).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, source string) (domain.Quiz, error)
}

// QuizRepository caches parsed quizzes in Redis and falls back to a loader on cache miss.
// Quizzes are stored as JSON: SET quiz:{source} {json} EX ttl
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration, logger *zap.Logger) *QuizRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, source string) (domain.Quiz, error) {
	if quiz, ok := r.fromCache(ctx, source); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, source); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, source)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, err
		}
		if err := r.client.Set(ctx, r.key(source), data, r.ttlWithJitter()).Err(); err != nil {
			// cache is best-effort
			r.logger.Warn("redis cache write failed", zap.String("source", source), zap.Error(err))
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate removes the cached copy of source.
func (r *QuizRepository) Invalidate(ctx context.Context, source string) error {
	return r.client.Del(ctx, r.key(source)).Err()
}

func (r *QuizRepository) fromCache(ctx context.Context, source string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.key(source)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache read failed", zap.String("source", source), zap.Error(err))
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		r.logger.Warn("dropping corrupt cache entry", zap.String("source", source), zap.Error(err))
		return domain.Quiz{}, false
	}
	if quiz.Len() == 0 {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) key(source string) string {
	return "quiz:" + source
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
