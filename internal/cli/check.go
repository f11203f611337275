package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quiz-helper/internal/domain"
	"quiz-helper/internal/infra/file"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "check <quiz-file>",
		Short: "Validate a quiz file and list its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			quiz, err := file.LoadFile(args[0], fileOptions(cfg))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d questions\n", quiz.Source, quiz.Len())
			if !quiet {
				printQuestions(out, quiz)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the question count")
	return cmd
}

func printQuestions(w io.Writer, quiz domain.Quiz) {
	for i, q := range quiz.Questions {
		label := q.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "\n%d. [%s] %s\n", i+1, label, q.Text)
		for a, answer := range q.Answers {
			marker := " "
			if q.IsCorrect(a) {
				marker = "*"
			}
			fmt.Fprintf(w, "   %s %d) %s\n", marker, a, answer)
		}
	}
}
