package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quiz-helper/internal/app"
	"quiz-helper/internal/config"
	"quiz-helper/internal/infra/file"
	"quiz-helper/internal/infra/memory"
	pglibrary "quiz-helper/internal/infra/postgres"
	rediscache "quiz-helper/internal/infra/redis"
	"quiz-helper/internal/infra/source"
	"quiz-helper/internal/logging"
	"quiz-helper/internal/metrics"
)

// loadConfig reads the config file, applying the log flag overrides.
func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.LoadOptional(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	return cfg, nil
}

func fileOptions(cfg config.Config) file.Options {
	return file.Options{
		Delimiter:       cfg.DelimiterRune(),
		CommentMarker:   cfg.Quiz.CommentMarker,
		CorrectMarker:   cfg.Quiz.CorrectMarker,
		AnswerSeparator: cfg.Quiz.AnswerSeparator,
		MaxAnswers:      cfg.Quiz.MaxAnswers,
	}
}

// environment is everything a command needs to play or serve quizzes.
type environment struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
	service *app.QuizService
	router  *source.Router
	closers []func()
}

// newEnvironment wires loaders, caches and stores from cfg. console receives
// human readable logs and may be nil.
func newEnvironment(ctx context.Context, cfg config.Config, console io.Writer, routerOpts ...source.RouterOption) (*environment, error) {
	logger, err := logging.New(logging.FromConfig(cfg, console))
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, logger: logger, metrics: metrics.NewCollector()}
	env.closers = append(env.closers, func() { _ = logger.Sync() })

	var library source.QuizLoader
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		env.closers = append(env.closers, pool.Close)
		library = pglibrary.NewQuizLoader(pool)
	}
	env.router = source.NewRouter(file.NewQuizLoader(fileOptions(cfg)), library, routerOpts...)

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, time.Minute)
	var quizRepo app.QuizRepository
	var store app.SessionRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		env.closers = append(env.closers, func() { _ = client.Close() })
		quizRepo = rediscache.NewQuizRepository(client, env.router, quizTTL, logger)
		store = rediscache.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		quizRepo = memory.NewQuizRepository(env.router, quizTTL)
		store = memory.NewSessionStore()
	}

	env.service = app.NewQuizService(store, quizRepo,
		app.WithObserver(env.metrics),
		app.WithLogger(logger),
	)
	return env, nil
}

// newServerEnvironment is newEnvironment with file sources confined to
// server.quiz_dir.
func newServerEnvironment(ctx context.Context, cfg config.Config, console io.Writer) (*environment, error) {
	return newEnvironment(ctx, cfg, console, source.WithFileRoot(cfg.Server.QuizDir))
}

// Close releases connections in reverse order.
func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
