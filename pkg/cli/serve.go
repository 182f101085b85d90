package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/cli/config"
	controller "github.com/safetylens/safetytracker/pkg/controller/http"
	"github.com/safetylens/safetytracker/pkg/usecase"
	"github.com/safetylens/safetytracker/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		datasetCfg  config.Dataset
		cacheCfg    config.Cache
		mappingsCfg config.Mappings
	)

	flags := joinFlags(
		serverCfg.Flags(),
		datasetCfg.Flags(),
		cacheCfg.Flags(),
		mappingsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting safetytracker server",
				slog.Any("server", serverCfg),
				slog.Any("dataset", datasetCfg),
				slog.Any("cache", cacheCfg),
				slog.Any("mappings", mappingsCfg),
			)

			mappings, err := mappingsCfg.Configure()
			if err != nil {
				return err
			}

			cacheOpt, err := cacheCfg.Configure()
			if err != nil {
				return err
			}

			ds, err := datasetCfg.Configure(ctx)
			if err != nil {
				return err
			}

			dashboardUC := usecase.NewDashboard(ds, mappings, cacheOpt)
			async.Dispatch(ctx, "warmup", dashboardUC.Warmup)

			httpCfg := serverCfg.Configure()
			server, err := controller.NewServer(ctx, httpCfg, dashboardUC)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", httpCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serverErr:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", httpCfg.Addr))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
