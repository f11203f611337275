package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-helper/internal/domain"
	"quiz-helper/internal/infra/postgres/migrations"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string    `bun:"id,pk"`
	Data      string    `bun:"data,type:jsonb"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// QuizWriter stores quizzes in the Postgres quiz library.
type QuizWriter struct {
	db  *bun.DB
	now func() time.Time
}

// OpenDB opens a bun handle on dsn.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

func NewQuizWriter(db *bun.DB) *QuizWriter {
	return &QuizWriter{db: db, now: time.Now}
}

// Save inserts quiz under id or replaces the stored copy.
func (w *QuizWriter) Save(ctx context.Context, id string, quiz domain.Quiz) error {
	if id == "" {
		return fmt.Errorf("quiz id is required")
	}
	quiz.ID = id
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	row := &quizRow{ID: id, Data: string(data), UpdatedAt: w.now()}
	_, err = w.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save quiz %s: %w", id, err)
	}
	return nil
}
