package pricing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(mustModel(t, DefaultParams()), DefaultExpiryEpsilon, zerolog.Nop())
}

func TestEngineEvaluate_EndToEnd(t *testing.T) {
	e := newTestEngine(t)
	today := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	req := Request{
		Contract: models.OptionContract{
			Underlying: "SPY",
			Strike:     100,
			Expiry:     today.AddDate(0, 0, 30),
			Type:       models.Call,
		},
		Snapshot: models.MarketSnapshot{Symbol: "SPY", UnderlyingPrice: 100},
		Low:      90,
		High:     110,
		Today:    today,
	}

	report, err := e.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if report.DaysToExpiry != 30 {
		t.Errorf("days = %d, want 30", report.DaysToExpiry)
	}
	if !approxEqual(report.CurrentValue, 3.469965048627813, 1e-9) {
		t.Errorf("current value = %v", report.CurrentValue)
	}
	if report.Grid.Rows() != 5 || report.Grid.Cols() != 31 {
		t.Errorf("grid is %dx%d, want 5x31", report.Grid.Rows(), report.Grid.Cols())
	}
	if report.Volatility != 0.30 || report.RiskFreeRate != 0.01 {
		t.Errorf("unexpected params %v %v", report.Volatility, report.RiskFreeRate)
	}
	if !report.Today.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("today = %v", report.Today)
	}

	row := -1
	for i, p := range report.Grid.Prices {
		if p == 100 {
			row = i
		}
	}
	if row < 0 {
		t.Fatal("spot 100 missing from price axis")
	}
	cells := report.Grid.Cells[row]
	if !(cells[len(cells)-1] < cells[0]) {
		t.Errorf("expiry cell %v should be below first cell %v", cells[len(cells)-1], cells[0])
	}
}

func TestEngineEvaluate_ExpiryToday(t *testing.T) {
	e := newTestEngine(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	report, err := e.Evaluate(context.Background(), Request{
		Contract: models.OptionContract{Strike: 100, Expiry: today, Type: models.Put},
		Snapshot: models.MarketSnapshot{UnderlyingPrice: 95},
		Low:      90,
		High:     100,
		Today:    today,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.TimeAxis.Len() != 1 {
		t.Errorf("time axis len = %d, want 1", report.TimeAxis.Len())
	}
	if !approxEqual(report.CurrentValue, 5, 1e-4) {
		t.Errorf("current value = %v, want intrinsic 5", report.CurrentValue)
	}
}

func TestEngineEvaluate_Failures(t *testing.T) {
	e := newTestEngine(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	base := Request{
		Contract: models.OptionContract{Strike: 100, Expiry: today.AddDate(0, 0, 5), Type: models.Call},
		Snapshot: models.MarketSnapshot{UnderlyingPrice: 100},
		Low:      90,
		High:     110,
		Today:    today,
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
		target error
	}{
		{"expired", func(r *Request) { r.Contract.Expiry = today.AddDate(0, 0, -1) }, apperrors.ErrAxisConstruction},
		{"inverted range", func(r *Request) { r.Low, r.High = 120, 110 }, apperrors.ErrAxisConstruction},
		{"bad variant", func(r *Request) { r.Contract.Type = "X" }, apperrors.ErrComputation},
		{"negative spot", func(r *Request) { r.Snapshot.UnderlyingPrice = -1 }, apperrors.ErrComputation},
		{"range up to max int", func(r *Request) { r.Low, r.High = 0, math.MaxInt }, apperrors.ErrAxisConstruction},
		{"too many cells", func(r *Request) { r.Low, r.High = 0, 100*MaxGridCells/6 }, apperrors.ErrAxisConstruction},
		{"expiry in year 9999", func(r *Request) { r.Contract.Expiry = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC) }, apperrors.ErrAxisConstruction},
		{"zero strike", func(r *Request) { r.Contract.Strike = 0 }, apperrors.ErrComputation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			report, err := e.Evaluate(context.Background(), req)
			if report != nil {
				t.Error("no report expected on failure")
			}
			if !apperrors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestEngineEvaluate_GridAtCellLimit(t *testing.T) {
	e := newTestEngine(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	// 3 dates x 101 prices stays well under the limit.
	req := Request{
		Contract: models.OptionContract{Strike: 100, Expiry: today.AddDate(0, 0, 2), Type: models.Put},
		Snapshot: models.MarketSnapshot{UnderlyingPrice: 100},
		Low:      0,
		High:     1000,
		Today:    today,
	}
	report, err := e.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if report.Grid.Rows()*report.Grid.Cols() > MaxGridCells {
		t.Errorf("grid has %d cells, limit %d", report.Grid.Rows()*report.Grid.Cols(), MaxGridCells)
	}
	if report.Grid.Cells[0][0] == 0 {
		t.Error("put at zero price should be worth the discounted strike")
	}
}

func TestNewEngine_DefaultsEpsilon(t *testing.T) {
	e := NewEngine(mustModel(t, DefaultParams()), 0, zerolog.Nop())
	if e.epsilon != DefaultExpiryEpsilon {
		t.Errorf("epsilon = %g, want %g", e.epsilon, DefaultExpiryEpsilon)
	}
}
