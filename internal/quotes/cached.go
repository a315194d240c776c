package quotes

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/logging"
	"options-pricer/internal/models"
	"options-pricer/internal/store"
)

// CachedProvider serves quotes younger than ttl from the store and records
// every fresh quote it fetches.
type CachedProvider struct {
	next   Provider
	store  store.QuoteStore
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewCachedProvider wraps next with a read-through cache.
func NewCachedProvider(next Provider, st store.QuoteStore, ttl time.Duration, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		store:  st,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.WithOperation(logger, "quote_cache"),
	}
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string {
	return c.next.Name()
}

// GetQuote returns a cached quote when fresh, otherwise fetches and stores one.
func (c *CachedProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = normalizeSymbol(symbol)
	log := logging.WithSymbol(c.logger, symbol)

	cached, err := c.store.GetLatestQuote(ctx, symbol)
	switch {
	case err == nil && cached.Source == c.next.Name() && c.now().Sub(cached.Timestamp) < c.ttl:
		logging.LogQuote(log, cached, true)
		return cached, nil
	case err != nil && !apperrors.Is(err, apperrors.ErrDataNotFound):
		// A broken cache must not block a lookup.
		log.Warn().Err(err).Msg("Quote cache read failed")
	}

	quote, err := c.next.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// Stamp with fetch time so the TTL measures cache age, not trade age.
	stored := *quote
	stored.Timestamp = c.now()
	if err := c.store.SaveQuote(ctx, &stored); err != nil {
		log.Warn().Err(err).Msg("Quote cache write failed")
	}

	logging.LogQuote(log, quote, false)
	return quote, nil
}
