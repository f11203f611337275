package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-helper/internal/config"
	"quiz-helper/internal/infra/file"
	pglibrary "quiz-helper/internal/infra/postgres"
	"quiz-helper/internal/infra/source"
	"quiz-helper/internal/logging"
)

var errNoPostgres = errors.New("postgres url not configured")

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the quiz library schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.FromConfig(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runMigrations(cmd.Context(), cfg, logger)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return errNoPostgres
	}
	db := pglibrary.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	group, err := pglibrary.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("no new migrations")
		return nil
	}
	logger.Info("migrations applied", zap.String("group", group.String()))
	return nil
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import <quiz-file>",
		Short: "Store a quiz file in the Postgres quiz library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errNoPostgres
			}
			quiz, err := file.LoadFile(args[0], fileOptions(cfg))
			if err != nil {
				return err
			}
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			db := pglibrary.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			if err := pglibrary.NewQuizWriter(db).Save(cmd.Context(), id, quiz); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d questions as %s%s\n", quiz.Len(), source.LibraryPrefix, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "library id (defaults to the file name without extension)")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the quizzes stored in the Postgres quiz library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errNoPostgres
			}
			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()
			ids, err := pglibrary.NewQuizLoader(pool).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), source.LibraryPrefix+id)
			}
			return nil
		},
	}
}
