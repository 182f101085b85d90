package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	// Environment files must be loaded before flags read their env sources
	envFile, err := loadEnvFile(args)
	if err != nil {
		return err
	}

	app := &cli.Command{
		Name:    "safetytracker",
		Usage:   "US Workplace Safety Tracker dashboard",
		Version: "0.1.0",
		Flags: joinFlags(
			loggerCfg.Flags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:  envFileFlag,
					Usage: "Load environment variables from this file (default .env if present)",
				},
			},
		),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			if envFile != "" {
				logger.Debug("Environment file loaded", "path", envFile)
			}
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdSummary(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
