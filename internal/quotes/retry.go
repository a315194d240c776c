package quotes

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/logging"
	"options-pricer/internal/models"
	"options-pricer/pkg/utils"
)

// RetryingProvider retries transient lookup failures with exponential backoff.
// Unknown symbols and authentication failures are returned immediately.
type RetryingProvider struct {
	next   Provider
	cfg    utils.RetryConfig
	logger zerolog.Logger
}

// NewRetryingProvider wraps next with bounded retry.
func NewRetryingProvider(next Provider, maxAttempts int, initialDelay time.Duration, logger zerolog.Logger) *RetryingProvider {
	cfg := utils.DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	if initialDelay > 0 {
		cfg.InitialDelay = initialDelay
	}
	cfg.ShouldRetry = IsTransient

	return &RetryingProvider{
		next:   next,
		cfg:    cfg,
		logger: logging.WithOperation(logger, "quote_retry"),
	}
}

// Name returns the wrapped provider's name.
func (r *RetryingProvider) Name() string {
	return r.next.Name()
}

// GetQuote calls the wrapped provider until it succeeds, fails permanently or
// runs out of attempts.
func (r *RetryingProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	attempt := 0
	return utils.RetryWithResult(ctx, r.cfg, func() (*models.Quote, error) {
		attempt++
		q, err := r.next.GetQuote(ctx, symbol)
		if err != nil && IsTransient(err) && attempt < r.cfg.MaxAttempts {
			r.logger.Debug().
				Err(err).
				Str("symbol", symbol).
				Int("attempt", attempt).
				Msg("Transient quote failure, retrying")
		}
		return q, err
	})
}

// IsTransient reports whether a lookup error may succeed on retry.
func IsTransient(err error) bool {
	return apperrors.Is(err, apperrors.ErrConnectionFailed)
}
