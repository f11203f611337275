package cli

import (
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quiz-helper/internal/ui/tui"
)

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

var errNoTerminal = errors.New("run needs an interactive terminal; use `check` or `score` instead")

func newRunCmd(opts *rootOptions) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "run [quiz-file]",
		Short: "Play a quiz in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errNoTerminal
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// the TUI owns the terminal, logs only go to the file sink
			env, err := newEnvironment(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			var src string
			if len(args) == 1 {
				src = args[0]
			}
			model := tui.NewModel(cmd.Context(), env.service, tui.Options{
				NoColor: noColor || cfg.UI.NoColor,
				Source:  src,
			})
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}

// defaultIsTerminal inspects stdout for TTY support.
func defaultIsTerminal(stdout io.Writer) bool {
	if stdout == nil {
		return false
	}
	if file, ok := stdout.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := stdout.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
