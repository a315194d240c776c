package pricing

import (
	"context"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// RoundCents rounds v to 2 decimal places, half away from zero on its shortest decimal form.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// BuildGrid evaluates pricer for every (price, time) pair and rounds each value to cents.
// Rows follow the price axis and columns follow the time axis. Rows are evaluated
// concurrently; each worker owns one row so the output does not depend on scheduling.
// The first failing cell fails the whole grid.
func BuildGrid(ctx context.Context, pricer Pricer, axis models.PriceAxis, times models.TimeAxis, contract models.OptionContract) (*models.PriceGrid, error) {
	if axis.Len() == 0 || times.Len() == 0 {
		return nil, apperrors.NewAxisConstructionError("grid", "price and time axes must be non-empty")
	}

	cells := make([][]float64, axis.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, spot := range axis.Prices {
		i, spot := i, spot
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]float64, times.Len())
			for j, pt := range times.Points {
				v, err := pricer.Price(spot, contract.Strike, pt.Years, contract.Type)
				if err != nil {
					return apperrors.Wrapf(err, "cell (%g, %s)", spot, pt.Date.Format("2006-01-02"))
				}
				row[j] = RoundCents(v)
			}
			cells[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	prices := make([]float64, axis.Len())
	copy(prices, axis.Prices)

	return &models.PriceGrid{
		Prices: prices,
		Dates:  times.Dates(),
		Cells:  cells,
	}, nil
}
