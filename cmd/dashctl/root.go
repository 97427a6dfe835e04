package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/bootstrap"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
)

type globalOptions struct {
	configPath string
	output     string
	logLevel   string
}

// app is the state shared by the subcommands. Config and logger are loaded
// lazily so commands like hash-key work without a config file.
type app struct {
	opts globalOptions
	out  io.Writer
	cfg  *config.Config
	log  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Operate the chemical sales dashboard",
		Long: `dashctl queries the dashboard data sources directly, issues viewer
tokens and seeds local SQL mirrors with synthetic data.

Configuration is read the same way as the server: config.toml, .env and
DASH_* environment variables.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := newPrinter(a.opts.output); err != nil {
				return err
			}
			a.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.opts.configPath, "config", "c", "", "Path to config.toml")
	f.StringVarP(&a.opts.output, "output", "o", "json", "Output format: json or yaml")
	f.StringVar(&a.opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newMonthsCmd(a),
		newKPIsCmd(a),
		newForecastCmd(a),
		newRefreshCmd(a),
		newTokenCmd(a),
		newHashKeyCmd(a),
		newSeedCmd(a),
	)
	return root
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.LoadFile(a.opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) logger() (*zap.Logger, error) {
	if a.log != nil {
		return a.log, nil
	}
	log, err := logger.New(&logger.Config{Level: a.opts.logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log
	return log, nil
}

// dashboard opens the data sources; the caller closes the result
func (a *app) dashboard(ctx context.Context) (*bootstrap.Dashboard, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	log, err := a.logger()
	if err != nil {
		return nil, err
	}
	return bootstrap.NewDashboard(ctx, cfg, log, nil)
}

func (a *app) print(v any) error {
	p, err := newPrinter(a.opts.output)
	if err != nil {
		return err
	}
	return p.Print(a.out, v)
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
