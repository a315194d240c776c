package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Pricer Configuration

[pricing]
# Annualised volatility used by the Black-Scholes model
volatility = 0.30
# Annual risk-free rate, continuously compounded
risk_free_rate = 0.01
# Time in years used for the expiry-day column (must be below 1/365)
expiry_epsilon = 1e-8

[quotes]
# Quote provider: "yahoo", "kite" or "static"
provider = "yahoo"
# Yahoo Finance chart API host
base_url = "https://query1.finance.yahoo.com"
# Per-request timeout
timeout = "10s"
# Reuse a stored quote younger than cache_ttl
cache_enabled = true
cache_ttl = "1m"
# Attempts for transient quote failures, with exponential backoff
max_attempts = 3
initial_delay = "200ms"
# Stop calling a failing source after this many consecutive failures (0 = never)
breaker_threshold = 3
breaker_cooldown = "30s"
# Exchange prefix for Kite instruments (NSE, BSE, NFO)
exchange = "NSE"

# Fixed prices used by the "static" provider
[quotes.static]
# SPY = 450.00

[ui]
# Enable colored output
color_enabled = true
# Minimum grid column width
column_width = 10
# Re-prompt limit per field (0 = unlimited)
max_prompt_attempts = 5
# Date format for the grid header
date_format = "2006/01/02"

[logging]
# Log level: trace, debug, info, warn, error
level = "info"
# Log to stderr
console = true
# Log to a rotating file
file = false
# file_path = "~/.config/options-pricer/logs/pricer.log"

[store]
# Quote cache database (defaults to quotes.db in the config directory)
# path = ""
`

const credentialsTemplate = `# Options Pricer Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[kite]
api_key = ""
# Read from session.json in the config directory when empty
access_token = ""
`

// Template returns the default config.toml contents.
func Template() string {
	return configTemplate
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
