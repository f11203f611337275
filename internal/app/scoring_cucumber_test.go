//go:build cucumber

package app_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"quiz-helper/internal/app"
	"quiz-helper/internal/domain"
	"quiz-helper/internal/infra/file"
)

// TestScoringScenarios runs the scoring feature scenarios.
func TestScoringScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "scoring",
		ScenarioInitializer: InitializeScoringScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "scoring.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScoringScenario wires steps for scoring scenarios.
func InitializeScoringScenario(ctx *godog.ScenarioContext) {
	state := &scoringState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a question "([^"]*)" with answers "([^"]*)"$`, state.givenQuestion)
	ctx.Step(`^I pick options "([^"]*)" on question (\d+)$`, state.whenPick)
	ctx.Step(`^I submit the quiz$`, state.whenSubmit)
	ctx.Step(`^question (\d+) is "([^"]*)"$`, state.thenOutcome)
	ctx.Step(`^the results table shows:$`, state.thenRows)
}

type scoringState struct {
	rows    []string
	session *app.Session
	summary domain.ResultSummary
}

// reset clears scenario state.
func (s *scoringState) reset() {
	s.rows = nil
	s.session = nil
	s.summary = domain.ResultSummary{}
}

// givenQuestion appends a quiz file row.
func (s *scoringState) givenQuestion(text, answers string) error {
	s.rows = append(s.rows, fmt.Sprintf("Q%d,%s,%s", len(s.rows)+1, text, answers))
	return nil
}

// started begins the session on the accumulated rows the first time it is needed.
func (s *scoringState) started() (*app.Session, error) {
	if s.session != nil {
		return s.session, nil
	}
	quiz, err := file.Parse(strings.NewReader(strings.Join(s.rows, "\n")), file.DefaultOptions())
	if err != nil {
		return nil, err
	}
	session := app.NewSessionWithClock("scenario", time.Now)
	if err := session.Begin(quiz); err != nil {
		return nil, err
	}
	s.session = session
	return session, nil
}

// whenPick selects a comma separated list of options on a 1-based question.
func (s *scoringState) whenPick(options string, question int) error {
	session, err := s.started()
	if err != nil {
		return err
	}
	var indices []int
	for _, raw := range strings.Split(options, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("option %q: %w", raw, err)
		}
		indices = append(indices, idx)
	}
	return session.SetSelection(question-1, indices...)
}

// whenSubmit submits and scores the answers.
func (s *scoringState) whenSubmit() error {
	session, err := s.started()
	if err != nil {
		return err
	}
	if _, err := session.Submit(); err != nil {
		return err
	}
	s.summary, err = session.Results()
	return err
}

// thenOutcome checks the outcome of a 1-based question.
func (s *scoringState) thenOutcome(question int, outcome string) error {
	if question < 1 || question > len(s.summary.Results) {
		return fmt.Errorf("no result for question %d", question)
	}
	if got := s.summary.Results[question-1].String(); got != outcome {
		return fmt.Errorf("question %d: expected %q, got %q", question, outcome, got)
	}
	return nil
}

// thenRows compares the listed rows with the rendered summary.
func (s *scoringState) thenRows(table *godog.Table) error {
	rendered := map[string]string{}
	for _, row := range s.summary.Rows() {
		rendered[row.Header] = row.Value
	}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		header, want := row.Cells[0].Value, row.Cells[1].Value
		got, ok := rendered[header]
		if !ok {
			return fmt.Errorf("no %q row in results", header)
		}
		if got != want {
			return fmt.Errorf("%s: expected %s, got %s", header, want, got)
		}
	}
	return nil
}
