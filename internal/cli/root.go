// Package cli provides the command-line interface for the pricer.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-pricer/internal/config"
	"options-pricer/internal/logging"
	"options-pricer/internal/quotes"
	"options-pricer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Quotes quotes.Provider
	Store  store.QuoteStore
	// Now returns the evaluation date when --today is not given.
	Now func() time.Time
}

// NewRootCmd creates the root command for the CLI. A nil cfg is loaded from
// the --config directory before any command runs.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{
		Config: cfg,
		Logger: logger,
		Now:    time.Now,
	})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pricer",
		Short: "Option value grid - theoretical option prices across price and time",
		Long: `Options Pricer values a European call or put with the Black-Scholes model.

It fetches the underlying's current price, then prints a grid of theoretical
option values for a range of underlying prices on every day until expiry.

Use 'pricer grid' to start; missing inputs are prompted for.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.Logger = logging.NewLoggerWithConfig(logConfig(cfg))
			}

			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-pricer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newGridCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

// logConfig maps the [logging] section onto the logger configuration.
func logConfig(cfg *config.Config) logging.LogConfig {
	return logging.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.File,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	}
}

// output creates an Output honouring ui.color_enabled.
func (a *App) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd).WithColor(a.Config.UI.ColorEnabled)
}

// quoteProvider builds the configured provider chain on first use.
func (a *App) quoteProvider() (quotes.Provider, error) {
	if a.Quotes != nil {
		return a.Quotes, nil
	}

	if a.Store == nil && a.Config.Quotes.CacheEnabled {
		st, err := store.NewSQLiteStore(a.Config.Store.Path)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to open quote cache, continuing without it")
		} else {
			a.Store = st
			a.Logger.Debug().Str("path", a.Config.Store.Path).Msg("Quote cache opened")
		}
	}

	p, err := quotes.New(a.Config, a.Store, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Quotes = p
	return p, nil
}

// Close releases the quote cache.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Options Pricer v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			dir := app.Config.Dir()
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
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

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Pricing")
	output.Printf("  Volatility:      %s\n", FormatPercentage(cfg.Pricing.Volatility))
	output.Printf("  Risk-free rate:  %s\n", FormatPercentage(cfg.Pricing.RiskFreeRate))
	output.Printf("  Expiry epsilon:  %g years\n", cfg.Pricing.ExpiryEpsilon)
	output.Println()

	output.Bold("Quotes")
	output.Printf("  Provider:        %s\n", cfg.Quotes.Provider)
	if cfg.Quotes.Provider == config.ProviderYahoo {
		output.Printf("  Base URL:        %s\n", cfg.Quotes.BaseURL)
	}
	output.Printf("  Timeout:         %s\n", cfg.Quotes.Timeout)
	output.Printf("  Max attempts:    %d\n", cfg.Quotes.MaxAttempts)
	breaker := "disabled"
	if cfg.Quotes.BreakerThreshold > 0 {
		breaker = fmt.Sprintf("after %d failures, %s cooldown", cfg.Quotes.BreakerThreshold, cfg.Quotes.BreakerCooldown)
	}
	output.Printf("  Circuit breaker: %s\n", breaker)
	cache := "disabled"
	if cfg.Quotes.CacheEnabled {
		cache = fmt.Sprintf("%s (%s)", cfg.Quotes.CacheTTL, cfg.Store.Path)
	}
	output.Printf("  Cache:           %s\n", cache)
	output.Println()

	output.Bold("Display")
	output.Printf("  Color:           %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Column width:    %d\n", cfg.UI.ColumnWidth)
	output.Printf("  Prompt attempts: %d\n", cfg.UI.MaxPromptAttempts)
	output.Printf("  Date format:     %s\n", cfg.UI.DateFormat)
}
