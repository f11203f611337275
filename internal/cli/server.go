package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-helper/internal/config"
	transport "quiz-helper/internal/transport/http"
)

// newServeCmd builds the subcommand serving quizzes over websockets.
func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quizzes over websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (defaults to server.port)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, portFlag string) error {
	env, err := newServerEnvironment(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      newMux(env),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting quiz server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-serveErr:
		if ok {
			logger.Error("failed to start server", zap.Error(err))
			return err
		}
		return nil
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newMux(env *environment) *http.ServeMux {
	wsHandler := transport.NewWSHandler(env.service, env.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/metrics", env.metrics.Handler())
	return mux
}
