package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quiz-helper/internal/infra/file"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <quiz-source>",
		Short: "Write a quiz (file or pg:<id>) back in the quiz file format",
		Args:  cobra.ExactArgs(1),
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

			quiz, err := env.router.LoadQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				return file.Encode(cmd.OutOrStdout(), quiz, fileOptions(cfg))
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := file.Encode(f, quiz, fileOptions(cfg)); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
