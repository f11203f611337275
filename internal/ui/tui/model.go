package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quiz-helper/internal/app"
	"quiz-helper/internal/domain"
)

// Options configures the terminal UI.
type Options struct {
	NoColor bool
	// Source is loaded right away when set, skipping the path prompt.
	Source string
}

// prompt is a modal question shown on top of the current screen.
type prompt int

const (
	promptNone prompt = iota
	promptAbout
	promptSubmit
	promptQuitOrRestart
)

// Model drives one quiz session from the terminal.
type Model struct {
	ctx     context.Context
	service *app.QuizService
	session *app.Session

	input   textinput.Model
	results table.Model
	option  int
	prompt  prompt
	status  string
	loading bool
	noColor bool
	source  string
	width   int
}

// NewModel builds the UI around a fresh session of service.
func NewModel(ctx context.Context, service *app.QuizService, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "path/to/quiz.csv"
	input.Prompt = "Quiz file: "
	input.CharLimit = 512
	input.Focus()

	results := table.New(
		table.WithColumns([]table.Column{{Title: "Result", Width: 26}, {Title: "Value", Width: 12}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	results.SetStyles(tableStyles(opts.NoColor))

	return Model{
		ctx:     ctx,
		service: service,
		session: service.NewSession(),
		input:   input,
		results: results,
		noColor: opts.NoColor,
		source:  opts.Source,
	}
}

// Init loads the preselected quiz, if any.
func (m Model) Init() tea.Cmd {
	if m.source != "" {
		return m.begin(m.source)
	}
	return textinput.Blink
}

// quizLoadedMsg reports the outcome of loading a quiz file.
type quizLoadedMsg struct {
	source string
	err    error
}

func (m Model) begin(source string) tea.Cmd {
	ctx, service, id := m.ctx, m.service, m.session.ID()
	return func() tea.Msg {
		_, err := service.Begin(ctx, id, source)
		return quizLoadedMsg{source: source, err: err}
	}
}

// Update reacts to key presses and load results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case quizLoadedMsg:
		m.loading = false
		if typed.err != nil {
			m.status = loadErrorText(typed.err)
			return m, nil
		}
		m.status = ""
		m.option = 0
		m.source = typed.source
		m.input.Blur()
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.prompt != promptNone {
			return m.updatePrompt(typed)
		}
		switch m.session.State() {
		case app.StateStart:
			return m.updateStart(typed)
		case app.StateInProgress:
			return m.updateQuestion(typed), nil
		case app.StateShowingResults:
			return m.updateResults(typed)
		case app.StateCorrection:
			return m.updateCorrection(typed), nil
		}
	}
	return m, nil
}

func (m Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlA:
		m.prompt = promptAbout
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		if path == "" || m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "loading " + path
		return m, m.begin(path)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateQuestion(msg tea.KeyMsg) Model {
	idx, question, err := m.session.Current()
	if err != nil {
		m.status = err.Error()
		return m
	}
	if msg.Type == tea.KeySpace {
		if _, err := m.session.Toggle(idx, m.option); err != nil {
			m.status = err.Error()
		}
		return m
	}
	switch msg.String() {
	case "up", "k":
		if m.option > 0 {
			m.option--
		}
	case "down", "j":
		if m.option < question.NumAnswers()-1 {
			m.option++
		}
	case "right", "n":
		m = m.moveQuestion(m.session.Next)
	case "left", "p":
		m = m.moveQuestion(m.session.Prev)
	case "enter", "s":
		m.prompt = promptSubmit
	}
	return m
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c", "enter":
		if err := m.session.Correction(); err != nil {
			m.status = err.Error()
		}
		m.option = 0
	case "q", "esc":
		m.prompt = promptQuitOrRestart
	}
	return m, nil
}

func (m Model) updateCorrection(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "right", "n":
		m = m.moveQuestion(m.session.Next)
	case "left", "p":
		m = m.moveQuestion(m.session.Prev)
	case "q", "esc":
		m.prompt = promptQuitOrRestart
	}
	return m
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.prompt {
	case promptAbout:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.prompt = promptNone
		}
	case promptSubmit:
		switch key {
		case "y", "enter":
			m.prompt = promptNone
			m = m.finish()
		case "n", "esc":
			m.prompt = promptNone
		}
	case promptQuitOrRestart:
		switch key {
		case "q", "y":
			return m, tea.Quit
		case "r":
			m.prompt = promptNone
			if err := m.session.Restart(); err != nil {
				m.status = err.Error()
				return m, nil
			}
			// the file may have been edited while playing
			_ = m.service.Invalidate(m.ctx, m.source)
			m.input.SetValue("")
			m.status = ""
			cmd := m.input.Focus()
			return m, cmd
		case "esc", "n":
			m.prompt = promptNone
		}
	}
	return m, nil
}

// finish submits the answers and shows the results table.
func (m Model) finish() Model {
	if _, err := m.session.Submit(); err != nil {
		m.status = err.Error()
		return m
	}
	summary, err := m.session.Results()
	if err != nil {
		m.status = err.Error()
		return m
	}
	rows := summaryRows(summary)
	m.results.SetHeight(len(rows) + 3)
	m.results.SetRows(rows)
	m.status = ""
	return m
}

func (m Model) moveQuestion(move func() (int, error)) Model {
	before, _, _ := m.session.Current()
	after, err := move()
	if err != nil {
		m.status = err.Error()
		return m
	}
	if after != before {
		m.option = 0
	}
	return m
}

// View renders the screen matching the session state.
func (m Model) View() string {
	var body string
	switch m.prompt {
	case promptAbout:
		return renderAbout(m.noColor)
	case promptSubmit:
		body = renderConfirm("Submit your answers? (y/n)", m.noColor)
	case promptQuitOrRestart:
		body = renderConfirm("Quit (q) or start a new quiz (r)? esc to go back", m.noColor)
	}

	var screen string
	switch m.session.State() {
	case app.StateStart:
		screen = renderStart(m.input.View(), m.noColor)
	case app.StateInProgress, app.StateCorrection:
		screen = renderQuestion(m.session.Snapshot(), m.option, m.width, m.noColor)
	case app.StateShowingResults:
		screen = renderResults(m.results.View(), m.noColor)
	}
	parts := []string{screen}
	if body != "" {
		parts = append(parts, body)
	}
	if m.status != "" {
		parts = append(parts, renderStatus(m.status, m.noColor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func summaryRows(summary domain.ResultSummary) []table.Row {
	rows := summary.Rows()
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, table.Row{row.Header, row.Value})
	}
	return out
}

func loadErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return "File not found: " + err.Error()
	case domain.IsParseError(err), errors.Is(err, domain.ErrInvalidEncoding):
		return "File not supported or malformed: " + err.Error()
	default:
		return err.Error()
	}
}
