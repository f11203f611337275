package redis

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-helper/internal/domain"
	"quiz-helper/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz.csv": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute, nil)

	first, err := repo.GetQuiz(context.Background(), "quiz.csv")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("quiz:quiz.csv") {
		t.Fatalf("expected quiz cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetQuiz(context.Background(), "quiz.csv")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached quiz differs:\n%+v\n%+v", first, second)
	}
}

func TestQuizRepositoryExpiresInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz.csv": sampleQuiz()})}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)

	_, _ = repo.GetQuiz(context.Background(), "quiz.csv")
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz.csv")
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.count())
	}

	if err := repo.Invalidate(context.Background(), "quiz.csv"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:quiz.csv") {
		t.Fatalf("expected cache entry removed")
	}
}

func TestQuizRepositoryIgnoresCorruptEntries(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	if err := mr.Set("quiz:quiz.csv", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loader := &countingLoader{QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz.csv": sampleQuiz()})}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)
	quiz, err := repo.GetQuiz(context.Background(), "quiz.csv")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.Len() != 1 || loader.count() != 1 {
		t.Fatalf("expected fallback to loader, got %d questions and %d calls", quiz.Len(), loader.count())
	}
}

type countingLoader struct {
	memory.QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, source string) (domain.Quiz, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, source)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuiz() domain.Quiz {
	q1, _ := domain.NewQuestion("Q1", "What is 2 + 2?", []string{"3", "4", "5"}, []int{1})
	q2, _ := domain.NewQuestion("", "Pick the primes", []string{"2", "4", "5"}, []int{0, 2})
	return domain.Quiz{ID: "quiz.csv", Source: "quiz.csv", Questions: []domain.Question{q1, q2}}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
