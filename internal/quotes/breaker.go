package quotes

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/logging"
	"options-pricer/internal/models"
	"options-pricer/internal/resilience"
)

// BreakerProvider stops calling a source that keeps failing transiently.
// Unknown symbols do not count as failures.
type BreakerProvider struct {
	next    Provider
	breaker *resilience.CircuitBreaker
	logger  zerolog.Logger
}

// NewBreakerProvider wraps next with a circuit breaker.
func NewBreakerProvider(next Provider, threshold int, cooldown time.Duration, logger zerolog.Logger) *BreakerProvider {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.FailureThreshold = threshold
	if cooldown > 0 {
		cfg.Cooldown = cooldown
	}
	cfg.IsFailure = IsTransient

	return &BreakerProvider{
		next:    next,
		breaker: resilience.NewCircuitBreaker(next.Name(), cfg),
		logger:  logging.WithOperation(logger, "quote_breaker"),
	}
}

// Name returns the wrapped provider's name.
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// GetQuote calls the wrapped provider unless the circuit is open.
func (b *BreakerProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	q, err := resilience.ExecuteWithResult(b.breaker, func() (*models.Quote, error) {
		return b.next.GetQuote(ctx, symbol)
	})
	if apperrors.Is(err, resilience.ErrCircuitOpen) {
		b.logStats(b.logger.Warn().Str("symbol", symbol)).Msg("Quote source circuit open, skipping lookup")
		return nil, apperrors.NewQuoteLookupError(b.Name(), symbol, err)
	}
	if err != nil && b.breaker.State() == resilience.CircuitOpen {
		b.logStats(b.logger.Warn().Err(err).Str("provider", b.Name())).Msg("Quote source failing, circuit opened")
	}
	return q, err
}

func (b *BreakerProvider) logStats(e *zerolog.Event) *zerolog.Event {
	stats := b.breaker.Stats()
	return e.Int64("requests", stats.TotalRequests).
		Int64("failures", stats.TotalFailures).
		Int64("rejected", stats.TotalRejected).
		Float64("failure_rate", stats.FailureRate())
}

// State returns the breaker state.
func (b *BreakerProvider) State() resilience.CircuitState {
	return b.breaker.State()
}
