package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "options-pricer/internal/errors"
)

func TestLoad_CreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}

	if cfg.Pricing.Volatility != 0.30 || cfg.Pricing.RiskFreeRate != 0.01 {
		t.Errorf("pricing = %+v, want defaults", cfg.Pricing)
	}
	if cfg.Quotes.Provider != ProviderYahoo || cfg.Quotes.MaxAttempts != 3 || cfg.Quotes.BreakerThreshold != 3 {
		t.Errorf("quotes = %+v", cfg.Quotes)
	}
	if cfg.Store.Path != filepath.Join(dir, "quotes.db") {
		t.Errorf("store path = %s", cfg.Store.Path)
	}
	if cfg.Dir() != dir {
		t.Errorf("dir = %s", cfg.Dir())
	}

	// Second load reads the template back.
	again, err := Load(dir)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.Quotes.CacheTTL != time.Minute || again.Quotes.Timeout != 10*time.Second {
		t.Errorf("durations = %v %v", again.Quotes.CacheTTL, again.Quotes.Timeout)
	}
	if again.Pricing.ExpiryEpsilon != 1e-8 {
		t.Errorf("epsilon = %g", again.Pricing.ExpiryEpsilon)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[pricing]
volatility = 0.45
risk_free_rate = 0.03

[quotes]
provider = "static"
cache_ttl = "5m"

[quotes.static]
SPY = 450.25

[ui]
max_prompt_attempts = 0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	params := cfg.Params()
	if params.Volatility != 0.45 || params.RiskFreeRate != 0.03 {
		t.Errorf("params = %+v", params)
	}
	if cfg.Quotes.Provider != ProviderStatic || cfg.Quotes.CacheTTL != 5*time.Minute {
		t.Errorf("quotes = %+v", cfg.Quotes)
	}
	// viper lower-cases keys
	if cfg.Quotes.Static["spy"] != 450.25 {
		t.Errorf("static = %v", cfg.Quotes.Static)
	}
	if cfg.UI.MaxPromptAttempts != 0 || cfg.UI.ColumnWidth != 10 {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICER_VOLATILITY", "0.2")
	t.Setenv("PRICER_RISK_FREE_RATE", "0.05")
	t.Setenv("PRICER_QUOTE_PROVIDER", "STATIC")
	t.Setenv("KITE_API_KEY", "key")
	t.Setenv("KITE_ACCESS_TOKEN", "token")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pricing.Volatility != 0.2 || cfg.Pricing.RiskFreeRate != 0.05 {
		t.Errorf("pricing = %+v", cfg.Pricing)
	}
	if cfg.Quotes.Provider != ProviderStatic {
		t.Errorf("provider = %s", cfg.Quotes.Provider)
	}
	if cfg.Credentials.Kite.APIKey != "key" || cfg.Credentials.Kite.AccessToken != "token" {
		t.Errorf("credentials = %+v", cfg.Credentials.Kite)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PRICER_VOLATILITY", "high")
	if _, err := Load(t.TempDir()); !apperrors.Is(err, apperrors.ErrConfigInvalid) {
		t.Errorf("error = %v, want ErrConfigInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero volatility", func(c *Config) { c.Pricing.Volatility = 0 }, true},
		{"negative volatility", func(c *Config) { c.Pricing.Volatility = -0.1 }, true},
		{"negative rate allowed", func(c *Config) { c.Pricing.RiskFreeRate = -0.005 }, false},
		{"epsilon too large", func(c *Config) { c.Pricing.ExpiryEpsilon = 0.01 }, true},
		{"zero epsilon", func(c *Config) { c.Pricing.ExpiryEpsilon = 0 }, true},
		{"unknown provider", func(c *Config) { c.Quotes.Provider = "bloomberg" }, true},
		{"zero attempts", func(c *Config) { c.Quotes.MaxAttempts = 0 }, true},
		{"negative breaker threshold", func(c *Config) { c.Quotes.BreakerThreshold = -1 }, true},
		{"breaker disabled", func(c *Config) { c.Quotes.BreakerThreshold = 0 }, false},
		{"bad static price", func(c *Config) { c.Quotes.Static = map[string]float64{"spy": 0} }, true},
		{"negative width", func(c *Config) { c.UI.ColumnWidth = -1 }, true},
		{"negative prompt attempts", func(c *Config) { c.UI.MaxPromptAttempts = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrConfigInvalid) {
				t.Errorf("error %v does not wrap ErrConfigInvalid", err)
			}
		})
	}
}
