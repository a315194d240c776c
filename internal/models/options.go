package models

import "time"

// OptionType is the contract variant. Only Call and Put are valid.
type OptionType string

const (
	Call OptionType = "C"
	Put  OptionType = "P"
)

// Valid reports whether t is Call or Put.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// String returns the long name of the variant.
func (t OptionType) String() string {
	switch t {
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	default:
		return "UNKNOWN(" + string(t) + ")"
	}
}

// OptionContract represents the contract being evaluated.
type OptionContract struct {
	Underlying string     `json:"underlying,omitempty"`
	Strike     float64    `json:"strike"`
	Expiry     time.Time  `json:"expiry"`
	Type       OptionType `json:"type"`
}

// PriceAxis is the ordered set of hypothetical underlying prices (grid rows).
type PriceAxis struct {
	Low       int       `json:"low"`
	High      int       `json:"high"`
	Increment int       `json:"increment"`
	Prices    []float64 `json:"prices"`
}

// Len returns the number of prices on the axis.
func (a PriceAxis) Len() int {
	return len(a.Prices)
}

// TimePoint pairs a calendar date with the model time input for that date.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Years float64   `json:"years"`
}

// TimeAxis is the ordered set of dates from the reference date to expiry (grid columns).
type TimeAxis struct {
	DaysToExpiry int         `json:"days_to_expiry"`
	Points       []TimePoint `json:"points"`
}

// Len returns the number of dates on the axis.
func (a TimeAxis) Len() int {
	return len(a.Points)
}

// Dates returns the calendar dates of the axis.
func (a TimeAxis) Dates() []time.Time {
	dates := make([]time.Time, len(a.Points))
	for i, p := range a.Points {
		dates[i] = p.Date
	}
	return dates
}

// PriceGrid holds rounded theoretical values.
// Cells[i][j] is the value at Prices[i] on Dates[j].
type PriceGrid struct {
	Prices []float64   `json:"prices"`
	Dates  []time.Time `json:"dates"`
	Cells  [][]float64 `json:"cells"`
}

// Rows returns the number of price rows.
func (g *PriceGrid) Rows() int {
	return len(g.Cells)
}

// Cols returns the number of date columns.
func (g *PriceGrid) Cols() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// Report is the complete result of one evaluation run, consumed by the renderer.
type Report struct {
	Contract     OptionContract `json:"contract"`
	Snapshot     MarketSnapshot `json:"snapshot"`
	Today        time.Time      `json:"today"`
	DaysToExpiry int            `json:"days_to_expiry"`
	CurrentValue float64        `json:"current_value"`
	Volatility   float64        `json:"volatility"`
	RiskFreeRate float64        `json:"risk_free_rate"`
	PriceAxis    PriceAxis      `json:"price_axis"`
	TimeAxis     TimeAxis       `json:"time_axis"`
	Grid         *PriceGrid     `json:"grid"`
}
