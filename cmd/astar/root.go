package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/astargraph/internal/config"
	"github.com/pdrpinto/astargraph/internal/ctxlog"
	"github.com/pdrpinto/astargraph/internal/telemetry"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	trace      bool

	cfg      config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func newRootCmd(outW io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "astar",
		Short:         "Grid path finding with a steppable A* engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.Background())
		},
	}
	root.SetOut(outW)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .hcl)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&a.trace, "trace", false, "export spans to stderr")

	root.AddCommand(newSolveCmd(a), newBenchCmd(a), newServeCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = ctxlog.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()).
		With("run_id", uuid.NewString(), "command", cmd.Name())
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))

	if a.trace {
		shutdown, err := telemetry.Init(cmd.ErrOrStderr(), version)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}
