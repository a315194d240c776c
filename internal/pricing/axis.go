package pricing

import (
	"fmt"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// Increment returns the price axis spacing for a span of high-low.
// Brackets are lower-exclusive and upper-inclusive; a zero span uses 100.
func Increment(span int) int {
	switch {
	case span > 0 && span <= 10:
		return 1
	case span > 10 && span <= 100:
		return 5
	case span > 100 && span <= 1000:
		return 10
	default:
		return 100
	}
}

// PriceAxisLen returns how many prices BuildPriceAxis yields for a valid range.
func PriceAxisLen(low, high int) int {
	span := high - low
	if span <= 0 {
		return 1
	}
	return (span-1)/Increment(span) + 2
}

// BuildPriceAxis builds the hypothetical underlying prices from low to high.
// Values step by Increment while strictly below high; high is always the last value.
func BuildPriceAxis(low, high int) (models.PriceAxis, error) {
	if low < 0 {
		return models.PriceAxis{}, apperrors.NewAxisConstructionError("price", fmt.Sprintf("low bound %d is negative", low))
	}
	if high < low {
		return models.PriceAxis{}, apperrors.NewAxisConstructionError("price", fmt.Sprintf("high bound %d is below low bound %d", high, low))
	}

	n := PriceAxisLen(low, high)
	if n > MaxGridCells {
		return models.PriceAxis{}, apperrors.NewAxisConstructionError("price", fmt.Sprintf("range %d-%d needs %d prices, limit is %d", low, high, n, MaxGridCells))
	}

	// Counting steps keeps low+k*inc below high, so nothing overflows near math.MaxInt.
	inc := Increment(high - low)
	prices := make([]float64, n)
	for k := 0; k < n-1; k++ {
		prices[k] = float64(low + k*inc)
	}
	prices[n-1] = float64(high)

	return models.PriceAxis{
		Low:       low,
		High:      high,
		Increment: inc,
		Prices:    prices,
	}, nil
}
