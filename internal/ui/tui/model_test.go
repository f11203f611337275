package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quiz-helper/internal/app"
	"quiz-helper/internal/domain"
	"quiz-helper/internal/infra/memory"
)

// TestQuizWalkthrough plays a quiz from the path prompt to the correction.
func TestQuizWalkthrough(t *testing.T) {
	m := newTestModel(t, "")
	m.input.SetValue("quiz.csv")
	m = loadWith(t, m, key(tea.KeyEnter))
	if got := m.session.State(); got != app.StateInProgress {
		t.Fatalf("expected in progress, got %s", got)
	}
	if !strings.Contains(m.View(), "Question 1/2") {
		t.Fatalf("expected position in view, got %q", m.View())
	}

	m = press(m, runes("j"), key(tea.KeySpace), runes("n"), key(tea.KeySpace))
	answers := m.session.Answers()
	if !answers[0].Equal(domain.NewSelection(1)) || !answers[1].Equal(domain.NewSelection(0)) {
		t.Fatalf("unexpected answers %v", answers)
	}

	m = press(m, runes("s"))
	if m.prompt != promptSubmit {
		t.Fatalf("expected submit prompt")
	}
	m = press(m, runes("y"))
	if got := m.session.State(); got != app.StateShowingResults {
		t.Fatalf("expected results, got %s", got)
	}
	view := m.View()
	if !strings.Contains(view, "Totally Correct %") || !strings.Contains(view, "50.00%") {
		t.Fatalf("expected summary table, got %q", view)
	}

	m = press(m, runes("c"))
	if got := m.session.State(); got != app.StateCorrection {
		t.Fatalf("expected correction, got %s", got)
	}
	if !strings.Contains(m.View(), "(correct)") {
		t.Fatalf("expected correct mark, got %q", m.View())
	}
	m = press(m, runes("n"))
	if !strings.Contains(m.View(), "(missed)") || !strings.Contains(m.View(), "(wrong)") {
		t.Fatalf("expected missed and wrong marks, got %q", m.View())
	}
}

func TestCancelSubmitKeepsAnswering(t *testing.T) {
	m := loadWith(t, newTestModel(t, "quiz.csv"), nil)
	m = press(m, runes("s"), runes("n"))
	if m.prompt != promptNone || m.session.State() != app.StateInProgress {
		t.Fatalf("expected to keep answering, state %s", m.session.State())
	}
}

func TestRestartGoesBackToStart(t *testing.T) {
	m := loadWith(t, newTestModel(t, "quiz.csv"), nil)
	m = press(m, runes("s"), runes("y"), runes("q"))
	if m.prompt != promptQuitOrRestart {
		t.Fatalf("expected quit or restart prompt")
	}
	m = press(m, runes("r"))
	if got := m.session.State(); got != app.StateStart {
		t.Fatalf("expected start, got %s", got)
	}
	if !strings.Contains(m.View(), "Quiz file") {
		t.Fatalf("expected path prompt, got %q", m.View())
	}
}

func TestQuitFromPrompt(t *testing.T) {
	m := loadWith(t, newTestModel(t, "quiz.csv"), nil)
	m = press(m, runes("s"), runes("y"), runes("q"))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestMissingFileShowsError(t *testing.T) {
	m := newTestModel(t, "")
	m.input.SetValue("nope.csv")
	m = loadWith(t, m, key(tea.KeyEnter))
	if m.session.State() != app.StateStart {
		t.Fatalf("expected to stay on start screen")
	}
	if !strings.Contains(m.View(), "File not found") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
}

func TestNavigationIsBounded(t *testing.T) {
	m := loadWith(t, newTestModel(t, "quiz.csv"), nil)
	m = press(m, runes("p"), runes("p"))
	if idx, _, _ := m.session.Current(); idx != 0 {
		t.Fatalf("expected first question, got %d", idx)
	}
	m = press(m, runes("n"), runes("n"), runes("n"))
	if idx, _, _ := m.session.Current(); idx != 1 {
		t.Fatalf("expected last question, got %d", idx)
	}
	m = press(m, runes("j"), runes("j"), runes("j"), runes("j"))
	if m.option != 2 {
		t.Fatalf("expected option cursor on last option, got %d", m.option)
	}
}

func TestAboutBox(t *testing.T) {
	m := newTestModel(t, "")
	m = press(m, key(tea.KeyCtrlA))
	if !strings.Contains(m.View(), "knowledge") {
		t.Fatalf("expected about text, got %q", m.View())
	}
	m = press(m, key(tea.KeyEnter))
	if m.prompt != promptNone {
		t.Fatalf("expected about box closed")
	}
}

func newTestModel(t *testing.T, source string) Model {
	t.Helper()
	q1, err := domain.NewQuestion("Q1", "Pick b", []string{"a", "b", "c"}, []int{1})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	q2, err := domain.NewQuestion("Q2", "Pick b and c", []string{"a", "b", "c"}, []int{1, 2})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	quizzes := map[string]domain.Quiz{
		"quiz.csv": {ID: "quiz.csv", Source: "quiz.csv", Questions: []domain.Question{q1, q2}},
	}
	repo := memory.NewQuizRepository(memory.NewStaticQuizLoader(quizzes), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), repo)
	return NewModel(context.Background(), service, Options{NoColor: true, Source: source})
}

// loadWith sends msg (or runs Init when msg is nil) and feeds the load result back.
func loadWith(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	var cmd tea.Cmd
	if msg == nil {
		cmd = m.Init()
	} else {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	if cmd == nil {
		t.Fatalf("expected load command")
	}
	loaded, ok := cmd().(quizLoadedMsg)
	if !ok {
		t.Fatalf("expected quizLoadedMsg")
	}
	next, _ := m.Update(loaded)
	return next.(Model)
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
