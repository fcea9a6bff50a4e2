// Package cli provides the command-line interface for the price tracker.
package cli

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"price-tracker/internal/alerts"
	"price-tracker/internal/config"
	"price-tracker/internal/history"
	"price-tracker/internal/logging"
	"price-tracker/internal/notify"
	"price-tracker/internal/provider/yahoo"
	"price-tracker/internal/tracker"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies. The tracker service is built
// lazily by commands that need the configuration; version and config-path
// work without a config file.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Service *tracker.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	app := &App{Logger: logger}

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Daily investment price tracker",
		Long: `Tracker follows a fixed set of instruments (gold, ISWD, HBKS), keeps a
rolling GBP price history, and sends daily summaries and intraday alerts
via Telegram.

It is meant to be invoked periodically by cron or a systemd timer:
'tracker summary' once a day, 'tracker watch' every few minutes during
market hours.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/price-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addTrackerCommands(rootCmd, app)

	return rootCmd
}

// init loads the configuration and wires up the tracker service. Returns
// the config-missing error untouched so the remediation hint reaches the
// user before any work is attempted.
func (app *App) init(cmd *cobra.Command) error {
	if app.Service != nil {
		return nil
	}

	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	app.Config = cfg

	// Reconfigure logging from the config file, keeping the debug flag.
	logCfg := logging.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.File,
		FilePath:   filepath.Join(cfg.Data.Dir, "..", "logs", "tracker.log"),
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	app.Logger = logging.NewLoggerWithConfig(logCfg)

	market := yahoo.New(time.Duration(cfg.Provider.TimeoutSec)*time.Second, app.Logger)

	var notifier notify.Notifier = notify.NewNoOpNotifier()
	if cfg.TelegramConfigured() {
		notifier = notify.NewTelegramNotifier(cfg.Telegram)
	} else {
		app.Logger.Warn().Msg("Telegram credentials not configured, notifications disabled")
	}

	app.Service = tracker.New(tracker.Deps{
		Config:      cfg,
		Instruments: config.Instruments(),
		Market:      market,
		Notifier:    notifier,
		History:     history.NewStore(cfg.HistoryPath()),
		AlertState:  alerts.NewStore(cfg.AlertStatePath()),
		Logger:      app.Logger,
	})

	return nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("price-tracker v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(cmd); err != nil {
				return err
			}
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an example configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")
			path, err := config.WriteExample(configDir)
			if err != nil {
				return err
			}
			output.Success("Example config written to %s", path)
			output.Println("Copy it to config.toml and fill in your Telegram credentials.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.init(cmd); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Telegram")
	output.Printf("  Configured:      %v\n", cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "")
	output.Println()

	output.Bold("Intraday Alerts")
	output.Printf("  Default Threshold: %.2f%%\n", cfg.Intraday.DefaultThresholdPct)
	for id, pct := range cfg.Intraday.Thresholds {
		output.Printf("  %-16s %.2f%%\n", id+":", pct)
	}
	output.Println()

	output.Bold("Price Alerts")
	if len(cfg.PriceAlerts) == 0 {
		output.Dim("  (none configured)")
	}
	for id, alert := range cfg.PriceAlerts {
		if alert.Above != nil {
			output.Printf("  %-16s above £%.2f\n", id+":", *alert.Above)
		}
		if alert.Below != nil {
			output.Printf("  %-16s below £%.2f\n", id+":", *alert.Below)
		}
	}
	output.Println()

	output.Bold("Data")
	output.Printf("  Directory:       %s\n", cfg.Data.Dir)
	output.Printf("  Provider timeout: %ds\n", cfg.Provider.TimeoutSec)

	return nil
}
