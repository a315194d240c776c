// Package config provides configuration management for the pricer.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/pricing"
)

// Supported quote providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderKite   = "kite"
	ProviderStatic = "static"
)

// Config holds all application configuration.
type Config struct {
	Pricing     PricingConfig `mapstructure:"pricing"`
	Quotes      QuotesConfig  `mapstructure:"quotes"`
	UI          UIConfig      `mapstructure:"ui"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Store       StoreConfig   `mapstructure:"store"`
	Credentials Credentials   `mapstructure:"-" json:"-"` // Loaded separately

	dir string
}

// PricingConfig holds the model parameters.
type PricingConfig struct {
	Volatility    float64 `mapstructure:"volatility"`
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	ExpiryEpsilon float64 `mapstructure:"expiry_epsilon"`
}

// QuotesConfig holds quote provider configuration.
type QuotesConfig struct {
	Provider         string             `mapstructure:"provider"` // yahoo, kite, static
	BaseURL          string             `mapstructure:"base_url"`
	Timeout          time.Duration      `mapstructure:"timeout"`
	CacheEnabled     bool               `mapstructure:"cache_enabled"`
	CacheTTL         time.Duration      `mapstructure:"cache_ttl"`
	MaxAttempts      int                `mapstructure:"max_attempts"`
	InitialDelay     time.Duration      `mapstructure:"initial_delay"`
	BreakerThreshold int                `mapstructure:"breaker_threshold"` // 0 disables the circuit breaker
	BreakerCooldown  time.Duration      `mapstructure:"breaker_cooldown"`
	Exchange         string             `mapstructure:"exchange"` // kite instrument prefix, e.g. NSE
	Static           map[string]float64 `mapstructure:"static"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled      bool   `mapstructure:"color_enabled"`
	ColumnWidth       int    `mapstructure:"column_width"`
	MaxPromptAttempts int    `mapstructure:"max_prompt_attempts"` // 0 = unbounded
	DateFormat        string `mapstructure:"date_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// StoreConfig holds quote cache database configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Credentials holds API credentials.
type Credentials struct {
	Kite KiteCredentials `mapstructure:"kite"`
}

// KiteCredentials holds Kite Connect API credentials.
type KiteCredentials struct {
	APIKey      string `mapstructure:"api_key"`
	AccessToken string `mapstructure:"access_token"`
	SessionPath string `mapstructure:"session_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-pricer"
	}
	return filepath.Join(home, ".config", "options-pricer")
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	// Unmarshalling defaults only fails on a programming error.
	if err := v.Unmarshal(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	defaults := pricing.DefaultParams()
	v.SetDefault("pricing.volatility", defaults.Volatility)
	v.SetDefault("pricing.risk_free_rate", defaults.RiskFreeRate)
	v.SetDefault("pricing.expiry_epsilon", pricing.DefaultExpiryEpsilon)

	v.SetDefault("quotes.provider", ProviderYahoo)
	v.SetDefault("quotes.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("quotes.timeout", 10*time.Second)
	v.SetDefault("quotes.cache_enabled", true)
	v.SetDefault("quotes.cache_ttl", time.Minute)
	v.SetDefault("quotes.max_attempts", 3)
	v.SetDefault("quotes.initial_delay", 200*time.Millisecond)
	v.SetDefault("quotes.breaker_threshold", 3)
	v.SetDefault("quotes.breaker_cooldown", 30*time.Second)
	v.SetDefault("quotes.exchange", "NSE")

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.column_width", 10)
	v.SetDefault("ui.max_prompt_attempts", 5)
	v.SetDefault("ui.date_format", "2006/01/02")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{dir: configDir}

	// Load main config
	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.resolvePaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template and continue with defaults
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PRICER_VOLATILITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "PRICER_VOLATILITY=%q", v)
		}
		cfg.Pricing.Volatility = f
	}
	if v := os.Getenv("PRICER_RISK_FREE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "PRICER_RISK_FREE_RATE=%q", v)
		}
		cfg.Pricing.RiskFreeRate = f
	}
	if v := os.Getenv("PRICER_QUOTE_PROVIDER"); v != "" {
		cfg.Quotes.Provider = strings.ToLower(v)
	}

	// Kite credentials
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Kite.AccessToken = v
	}

	return nil
}

// resolvePaths fills in file locations relative to the config directory.
func (c *Config) resolvePaths() {
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.dir, "quotes.db")
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.dir, "logs", "pricer.log")
	}
	if c.Credentials.Kite.SessionPath == "" {
		c.Credentials.Kite.SessionPath = filepath.Join(c.dir, "session.json")
	}
}

// Dir returns the directory the configuration was loaded from.
func (c *Config) Dir() string {
	return c.dir
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate pricing parameters
	if !(c.Pricing.Volatility > 0) || math.IsInf(c.Pricing.Volatility, 0) {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "pricing.volatility must be a positive number, got %v", c.Pricing.Volatility)
	}
	if math.IsNaN(c.Pricing.RiskFreeRate) || math.IsInf(c.Pricing.RiskFreeRate, 0) {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "pricing.risk_free_rate must be finite")
	}
	if !(c.Pricing.ExpiryEpsilon > 0 && c.Pricing.ExpiryEpsilon < 1/pricing.DaysPerYear) {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "pricing.expiry_epsilon must be in (0, 1/365), got %g", c.Pricing.ExpiryEpsilon)
	}

	// Validate quote provider
	switch c.Quotes.Provider {
	case ProviderYahoo, ProviderKite, ProviderStatic:
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "invalid quote provider: %s (must be 'yahoo', 'kite' or 'static')", c.Quotes.Provider)
	}
	if c.Quotes.MaxAttempts < 1 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "quotes.max_attempts must be at least 1")
	}
	if c.Quotes.BreakerThreshold < 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "quotes.breaker_threshold must be non-negative")
	}
	if c.Quotes.Timeout < 0 || c.Quotes.CacheTTL < 0 || c.Quotes.InitialDelay < 0 || c.Quotes.BreakerCooldown < 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "quote durations must be non-negative")
	}
	for symbol, price := range c.Quotes.Static {
		if !(price > 0) {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "quotes.static.%s must be positive", symbol)
		}
	}

	// Validate UI settings
	if c.UI.ColumnWidth < 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "ui.column_width must be non-negative")
	}
	if c.UI.MaxPromptAttempts < 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "ui.max_prompt_attempts must be non-negative")
	}

	return nil
}

// Params returns the pricing model parameters.
func (c *Config) Params() pricing.Params {
	return pricing.Params{
		Volatility:   c.Pricing.Volatility,
		RiskFreeRate: c.Pricing.RiskFreeRate,
	}
}
