// Package quotes resolves the current price of an underlying from a market
// data source. Providers are composed: a base source, optionally wrapped in
// retry, a circuit breaker and a read-through cache.
package quotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"options-pricer/internal/config"
	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
	"options-pricer/internal/store"
)

// Provider defines the interface for quote lookups.
type Provider interface {
	// GetQuote returns the latest quote for symbol. Unknown symbols yield an
	// error wrapping errors.ErrSymbolNotFound.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	// Name identifies the provider in logs and stored quotes.
	Name() string
}

// New builds the provider chain described by cfg: the configured source,
// wrapped in retry, then a circuit breaker, then a cache when enabled and a
// store is given.
func New(cfg *config.Config, st store.QuoteStore, logger zerolog.Logger) (Provider, error) {
	var base Provider

	switch cfg.Quotes.Provider {
	case config.ProviderYahoo:
		base = NewYahooProvider(YahooConfig{
			BaseURL: cfg.Quotes.BaseURL,
			Timeout: cfg.Quotes.Timeout,
		}, logger)
	case config.ProviderKite:
		kite, err := NewKiteProvider(KiteConfig{
			APIKey:      cfg.Credentials.Kite.APIKey,
			AccessToken: cfg.Credentials.Kite.AccessToken,
			SessionPath: cfg.Credentials.Kite.SessionPath,
			Exchange:    cfg.Quotes.Exchange,
			Timeout:     cfg.Quotes.Timeout,
		})
		if err != nil {
			return nil, err
		}
		base = kite
	case config.ProviderStatic:
		base = NewStaticProvider(cfg.Quotes.Static)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown quote provider %q", cfg.Quotes.Provider)
	}

	var p Provider = base
	if cfg.Quotes.MaxAttempts > 1 {
		p = NewRetryingProvider(p, cfg.Quotes.MaxAttempts, cfg.Quotes.InitialDelay, logger)
	}
	if cfg.Quotes.BreakerThreshold > 0 {
		p = NewBreakerProvider(p, cfg.Quotes.BreakerThreshold, cfg.Quotes.BreakerCooldown, logger)
	}
	if cfg.Quotes.CacheEnabled && st != nil && cfg.Quotes.CacheTTL > 0 {
		p = NewCachedProvider(p, st, cfg.Quotes.CacheTTL, logger)
	}

	logger.Debug().Str("provider", p.Name()).Msg("Quote provider ready")
	return p, nil
}

// RoundPrice rounds a quoted price to cents.
func RoundPrice(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// normalizeSymbol upper-cases and trims a ticker.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// notFound builds the error returned for an unknown symbol.
func notFound(provider, symbol string) error {
	return apperrors.NewQuoteLookupError(provider, symbol,
		fmt.Errorf("%w: no price for %s", apperrors.ErrSymbolNotFound, symbol))
}

// unavailable builds the error returned for a transient source failure.
func unavailable(provider, symbol string, cause error) error {
	return apperrors.NewQuoteLookupError(provider, symbol,
		fmt.Errorf("%w: %v", apperrors.ErrConnectionFailed, cause))
}
