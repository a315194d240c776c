package quotes

import (
	"context"
	"time"

	"options-pricer/internal/models"
)

// StaticProvider serves fixed prices, for offline use and tests.
type StaticProvider struct {
	prices map[string]float64
	now    func() time.Time
}

// NewStaticProvider creates a provider over a symbol to price map.
// Symbols are matched case-insensitively.
func NewStaticProvider(prices map[string]float64) *StaticProvider {
	normalized := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		normalized[normalizeSymbol(symbol)] = price
	}
	return &StaticProvider{prices: normalized, now: time.Now}
}

// Name returns the provider name.
func (s *StaticProvider) Name() string {
	return "static"
}

// GetQuote returns the configured price for symbol.
func (s *StaticProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbol = normalizeSymbol(symbol)
	price, ok := s.prices[symbol]
	if !ok || !(price > 0) {
		return nil, notFound(s.Name(), symbol)
	}

	return &models.Quote{
		Symbol:    symbol,
		LTP:       RoundPrice(price),
		Source:    s.Name(),
		Timestamp: s.now(),
	}, nil
}
