package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// MaxGridCells bounds rows*cols of one evaluation.
const MaxGridCells = 1_000_000

// Request holds the validated inputs of one evaluation run.
type Request struct {
	Contract models.OptionContract
	Snapshot models.MarketSnapshot
	Low      int
	High     int
	Today    time.Time
}

// Engine runs the full evaluation: axes, grid and current value.
type Engine struct {
	model   *Model
	epsilon float64
	logger  zerolog.Logger
}

// NewEngine creates an engine. A non-positive epsilon falls back to DefaultExpiryEpsilon.
func NewEngine(model *Model, epsilon float64, logger zerolog.Logger) *Engine {
	if epsilon <= 0 {
		epsilon = DefaultExpiryEpsilon
	}
	return &Engine{
		model:   model,
		epsilon: epsilon,
		logger:  logger.With().Str("component", "engine").Logger(),
	}
}

// Params returns the model parameters the engine prices with.
func (e *Engine) Params() Params {
	return e.model.Params()
}

// CurrentValue prices the contract at spot with the true remaining days.
// On expiry day the epsilon stands in for zero.
func (e *Engine) CurrentValue(spot float64, contract models.OptionContract, days int) (float64, error) {
	years := float64(days) / DaysPerYear
	if days == 0 {
		years = e.epsilon
	}
	return e.model.Price(spot, contract.Strike, years, contract.Type)
}

// Evaluate builds the report for req. Any failure is fatal; no partial report is returned.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*models.Report, error) {
	start := time.Now()
	days := DaysToExpiry(req.Today, req.Contract.Expiry)

	times, err := BuildTimeAxis(req.Today, days, e.epsilon)
	if err != nil {
		return nil, err
	}

	if req.Low >= 0 && req.High >= req.Low {
		if rows := PriceAxisLen(req.Low, req.High); rows > MaxGridCells/times.Len() {
			return nil, apperrors.NewAxisConstructionError("grid",
				fmt.Sprintf("%d prices x %d dates exceeds %d cells", rows, times.Len(), MaxGridCells))
		}
	}

	axis, err := BuildPriceAxis(req.Low, req.High)
	if err != nil {
		return nil, err
	}

	current, err := e.CurrentValue(req.Snapshot.UnderlyingPrice, req.Contract, days)
	if err != nil {
		return nil, apperrors.Wrap(err, "current value")
	}

	grid, err := BuildGrid(ctx, e.model, axis, times, req.Contract)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("type", req.Contract.Type.String()).
		Float64("strike", req.Contract.Strike).
		Int("days_to_expiry", days).
		Int("rows", grid.Rows()).
		Int("cols", grid.Cols()).
		Dur("elapsed", time.Since(start)).
		Msg("Grid evaluated")

	params := e.model.Params()
	return &models.Report{
		Contract:     req.Contract,
		Snapshot:     req.Snapshot,
		Today:        times.Points[0].Date,
		DaysToExpiry: days,
		CurrentValue: current,
		Volatility:   params.Volatility,
		RiskFreeRate: params.RiskFreeRate,
		PriceAxis:    axis,
		TimeAxis:     times,
		Grid:         grid,
	}, nil
}
