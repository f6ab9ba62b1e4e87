package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sportslens/sportslens/internal/observability"
	"github.com/sportslens/sportslens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP facade over the pipeline",
	Long: `Serve exposes the pipeline over HTTP:

  GET /healthz
  GET /v1/fetch?path=/teams&league=1
  GET /v1/cache/stats

Responses carry the same envelope shape the library returns.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := observability.NewServerLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync() // nolint:errcheck // best-effort flush

	apiClient := buildClient(cfg, logger)
	srv := server.New(cfg.Server, apiClient, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(srv.Start)
	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exited", zap.Error(err))
		return err
	}
	return nil
}
