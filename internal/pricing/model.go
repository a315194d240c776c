// Package pricing implements the closed-form option model, the grid axes and
// the matrix evaluation that combines them.
package pricing

import (
	"math"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// DaysPerYear converts calendar days to model years.
const DaysPerYear = 365.0

// DefaultExpiryEpsilon replaces a zero time to expiry on the expiration date.
const DefaultExpiryEpsilon = 1e-8

// Params holds the market assumptions of the model.
type Params struct {
	Volatility   float64 `json:"volatility"`
	RiskFreeRate float64 `json:"risk_free_rate"`
}

// DefaultParams returns 30% volatility and a 1% risk-free rate.
func DefaultParams() Params {
	return Params{
		Volatility:   0.30,
		RiskFreeRate: 0.01,
	}
}

// Pricer evaluates one option instance.
type Pricer interface {
	Price(spot, strike, years float64, optType models.OptionType) (float64, error)
}

// Model is a Black-Scholes pricer for European options under constant parameters.
type Model struct {
	params Params
}

// NewModel creates a model after checking its parameters.
func NewModel(params Params) (*Model, error) {
	if !isPositive(params.Volatility) {
		return nil, apperrors.NewComputationError("model", "volatility", params.Volatility, "must be positive and finite")
	}
	if math.IsNaN(params.RiskFreeRate) || math.IsInf(params.RiskFreeRate, 0) {
		return nil, apperrors.NewComputationError("model", "risk_free_rate", params.RiskFreeRate, "must be finite")
	}
	return &Model{params: params}, nil
}

// Params returns the model parameters.
func (m *Model) Params() Params {
	return m.params
}

// Price returns the theoretical value of a call or put.
// years must be strictly positive; callers substitute a small epsilon on expiry day.
// A zero spot prices at its limit: a worthless call and a put worth the discounted strike.
func (m *Model) Price(spot, strike, years float64, optType models.OptionType) (float64, error) {
	switch {
	case spot != 0 && !isPositive(spot):
		return 0, apperrors.NewComputationError("price", "spot", spot, "must be non-negative and finite")
	case !isPositive(strike):
		return 0, apperrors.NewComputationError("price", "strike", strike, "must be positive and finite")
	case !isPositive(years):
		return 0, apperrors.NewComputationError("price", "years", years, "must be positive and finite")
	}

	sigma := m.params.Volatility
	r := m.params.RiskFreeRate
	if spot == 0 {
		return zeroSpotValue(strike*math.Exp(-r*years), optType)
	}
	sqrtT := math.Sqrt(years)

	d1 := (math.Log(spot/strike) + (r+sigma*sigma/2)*years) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discount := strike * math.Exp(-r*years)

	switch optType {
	case models.Call:
		return spot*normCDF(d1) - discount*normCDF(d2), nil
	case models.Put:
		return discount*normCDF(-d2) - spot*normCDF(-d1), nil
	default:
		return 0, apperrors.NewComputationError("price", "type", string(optType), "unknown option type")
	}
}

func zeroSpotValue(discount float64, optType models.OptionType) (float64, error) {
	switch optType {
	case models.Call:
		return 0, nil
	case models.Put:
		return discount, nil
	default:
		return 0, apperrors.NewComputationError("price", "type", string(optType), "unknown option type")
	}
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func isPositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
