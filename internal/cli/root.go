// Package cli defines the bookshelf command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/logging"
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

type rootOptions struct {
	envFiles []string
	logLevel string
	dev      bool
	info     BuildInfo
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{info: info}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Browse and manage a remote book catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "human friendly console logging")

	root.AddCommand(
		newServeCommand(opts),
		newTUICommand(opts),
		newListCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads and validates the configuration.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	config.LoadDotEnv(o.envFiles...)
	cfg := config.NewConfig()
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.dev {
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// build loads configuration, creates the logger and wires the application.
func (o *rootOptions) build(ctx context.Context, outputPaths ...string) (*entrypoint.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: outputPaths,
	})
	if err != nil {
		return nil, err
	}

	app, err := entrypoint.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return app, nil
}

func closeApp(app *entrypoint.App) {
	if err := app.Close(); err != nil {
		app.Logger.Warn("error while closing", zap.Error(err))
	}
	_ = app.Logger.Sync()
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
