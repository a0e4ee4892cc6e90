package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/config"
	"github.com/dm/casamatriz/internal/logging"
	"github.com/dm/casamatriz/internal/tui"
)

// flagKeys maps CLI flag names onto viper keys.
var flagKeys = map[string]string{
	"url":            config.KeyMiddlewareURL,
	"interval":       config.KeyInterval,
	"status-timeout": config.KeyStatusTimeout,
	"load-timeout":   config.KeyLoadTimeout,
	"insecure":       config.KeyInsecure,
	"log-file":       config.KeyLogFile,
	"log-level":      config.KeyLogLevel,
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "casamatriz [flags]",
		Short: "Terminal dashboard for the Casa Matriz middleware",
		Long: "Polls the middleware's service status and browses the purchase lists (App 1)\n" +
			"and hospital appointments (App 2) it exposes.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd, v)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runDashboard(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.SortFlags = false
	flags.StringP("url", "u", config.DefaultMiddlewareURL, "middleware base URL (env MIDDLEWARE_URL)")
	flags.Duration("interval", config.DefaultInterval, "status polling interval")
	flags.Duration("status-timeout", config.DefaultStatusTimeout, "timeout for a single status poll")
	flags.Duration("load-timeout", 0, "timeout for data loads (0 = none)")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.StringP("config", "c", "", "config file (default $HOME/.config/casamatriz/config.*)")
	flags.String("log-file", config.DefaultLogFile, "log file written while the dashboard runs")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")

	root.AddCommand(newCheckCmd(func() *config.Config { return cfg }))
	return root
}

// loadConfig binds the command's flags into v and resolves the configuration.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDashboard(ctx context.Context, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := logging.NewLogger(logFile, level)
	slog.SetDefault(logger)

	c, err := client.NewDefaultClient(client.ClientConfig{
		BaseURL:            cfg.MiddlewareURL,
		InsecureSkipVerify: cfg.Insecure,
	})
	if err != nil {
		return err
	}

	app := tui.NewApp(c, tui.Options{
		PollInterval:  cfg.Interval,
		StatusTimeout: cfg.StatusTimeout,
		LoadTimeout:   cfg.LoadTimeout,
		Logger:        logger,
	})

	logger.Info("dashboard starting", "url", cfg.MiddlewareURL, "interval", cfg.Interval, "config", cfg.Path)
	defer logger.Info("dashboard stopped")

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
