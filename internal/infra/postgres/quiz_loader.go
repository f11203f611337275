package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-helper/internal/domain"
)

// QuizLoader loads quiz JSONB from the Postgres quiz library.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return decodeQuiz(quizID, raw)
}

// List returns the ids of the quizzes in the library.
func (l *QuizLoader) List(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT id FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quiz id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// decodeQuiz re-validates stored questions so the library cannot hand out a quiz the file loader would reject.
func decodeQuiz(quizID string, raw []byte) (domain.Quiz, error) {
	var stored domain.Quiz
	if err := json.Unmarshal(raw, &stored); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	questions := make([]domain.Question, 0, len(stored.Questions))
	for i, q := range stored.Questions {
		question, err := domain.NewQuestion(q.Label, q.Text, q.Answers, q.CorrectAnswers)
		if err != nil {
			return domain.Quiz{}, &domain.ParseError{Msg: fmt.Sprintf("stored question %d", i+1), Err: err}
		}
		questions = append(questions, question)
	}
	quiz, err := domain.NewQuiz(quizID, stored.Source, questions)
	if err != nil {
		return domain.Quiz{}, &domain.ParseError{Err: err}
	}
	return quiz, nil
}
