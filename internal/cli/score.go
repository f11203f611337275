package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quiz-helper/internal/app"
	"quiz-helper/internal/domain"
)

// answersFile is the YAML document read by `score`:
//
//	answers:
//	  - [1]
//	  - [0, 2]
//	  - []
type answersFile struct {
	Answers [][]int `yaml:"answers"`
}

func readAnswers(path string) (domain.UserAnswers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var doc answersFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	answers := make(domain.UserAnswers, len(doc.Answers))
	for i, selected := range doc.Answers {
		answers[i] = domain.NewSelection(selected...)
	}
	return answers, nil
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "score <quiz-source> <answers.yaml>",
		Short: "Score a set of answers without the interactive UI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			env, err := newEnvironment(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			quiz, err := env.service.LoadQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			answers, err := readAnswers(args[1])
			if err != nil {
				return err
			}
			summary, err := app.ComputeResults(quiz, answers)
			if err != nil {
				return err
			}
			env.metrics.ResultsComputed(summary)
			return writeSummary(cmd.OutOrStdout(), format, summary)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func writeSummary(w io.Writer, format string, summary domain.ResultSummary) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(summary)
	case "text", "":
		for i, outcome := range summary.Results {
			fmt.Fprintf(w, "question %d: %s\n", i+1, outcome)
		}
		fmt.Fprintln(w)
		for _, row := range summary.Rows() {
			fmt.Fprintf(w, "%-20s %s\n", row.Header, row.Value)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text|json|yaml)", format)
	}
}
