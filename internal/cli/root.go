package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "quiz-helper",
		Short:        "Test your knowledge and revise important topics",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config (optional)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}
