package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"quiz-helper/internal/app"
)

var (
	colorTitle   = lipgloss.Color("214")
	colorMuted   = lipgloss.Color("244")
	colorCorrect = lipgloss.Color("34")
	colorWrong   = lipgloss.Color("160")
	colorStatus  = lipgloss.Color("203")
)

const aboutText = `Quiz Helper is a tool to help you focus on your knowledge
base as well as prepare fun quizzes to share with other people.
It starts from a plain CSV file, no setup required.

Press enter to go back.`

func renderStart(input string, noColor bool) string {
	title := stylize("Quiz Helper", noColor, colorTitle)
	help := stylize("enter: start quiz  ctrl+a: about  esc: quit", noColor, colorMuted)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", input, "", help)
}

func renderAbout(noColor bool) string {
	box := lipgloss.NewStyle().Padding(1, 2)
	if !noColor {
		box = box.Border(lipgloss.RoundedBorder()).BorderForeground(colorTitle)
	}
	return box.Render(aboutText)
}

// renderQuestion shows the question under the cursor with a checkbox per option.
// In correction mode the options are colored by their review mark.
func renderQuestion(snap app.Snapshot, option, width int, noColor bool) string {
	q := snap.Question
	if q == nil {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("Question %d/%d", q.Index+1, snap.Total)
	if q.Label != "" {
		header += " | " + q.Label
	}
	b.WriteString(stylize(header, noColor, colorMuted))
	b.WriteString("\n\n")
	text := lipgloss.NewStyle().Bold(!noColor)
	if width > 4 {
		text = text.Width(width - 2)
	}
	b.WriteString(text.Render(q.Text))
	b.WriteString("\n\n")

	reviewing := len(q.Marks) > 0
	for i, answer := range q.Answers {
		cursor := "  "
		if !reviewing && i == option {
			cursor = "> "
		}
		box := "[ ]"
		if q.Selected.Contains(i) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, answer)
		if reviewing {
			line = renderMark(line, q.Marks[i], noColor)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	help := "space: toggle  j/k: option  n/p: next/prev  s: submit"
	if reviewing {
		help = "n/p: next/prev  q: done"
	}
	b.WriteString(stylize(help, noColor, colorMuted))
	return b.String()
}

func renderMark(line, mark string, noColor bool) string {
	if noColor {
		switch mark {
		case app.MarkCorrectChosen.String():
			return line + "  (correct)"
		case app.MarkMissed.String():
			return line + "  (missed)"
		case app.MarkWrongChosen.String():
			return line + "  (wrong)"
		}
		return line
	}
	switch mark {
	case app.MarkCorrectChosen.String():
		return stylize(line, false, colorCorrect)
	case app.MarkMissed.String(), app.MarkWrongChosen.String():
		return stylize(line, false, colorWrong)
	}
	return line
}

func renderResults(tableView string, noColor bool) string {
	title := stylize("Results", noColor, colorTitle)
	help := stylize("c: view correction  q: quit or restart", noColor, colorMuted)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", tableView, "", help)
}

func renderConfirm(text string, noColor bool) string {
	return "\n" + stylize(text, noColor, colorTitle)
}

func renderStatus(text string, noColor bool) string {
	return "\n" + stylize(text, noColor, colorStatus)
}

func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Header = lipgloss.NewStyle().Bold(true).Padding(0, 1)
		styles.Selected = lipgloss.NewStyle()
		return styles
	}
	styles.Header = styles.Header.Foreground(colorTitle)
	styles.Selected = lipgloss.NewStyle()
	return styles
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
