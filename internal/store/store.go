// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"options-pricer/internal/models"
)

// QuoteStore persists fetched underlying quotes so repeat lookups within the
// cache window do not hit the network.
type QuoteStore interface {
	// SaveQuote records a fetched quote.
	SaveQuote(ctx context.Context, quote *models.Quote) error
	// GetLatestQuote returns the most recent quote for symbol, or
	// errors.ErrDataNotFound when none has been recorded.
	GetLatestQuote(ctx context.Context, symbol string) (*models.Quote, error)
	// GetQuoteHistory returns up to limit quotes for symbol, newest first.
	GetQuoteHistory(ctx context.Context, symbol string, limit int) ([]models.Quote, error)

	// Lifecycle
	Close() error
}
