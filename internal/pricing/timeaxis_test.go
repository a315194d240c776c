package pricing

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "options-pricer/internal/errors"
)

var refDate = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func TestBuildTimeAxis_ThreeDays(t *testing.T) {
	axis, err := BuildTimeAxis(refDate, 3, DefaultExpiryEpsilon)
	if err != nil {
		t.Fatal(err)
	}
	if axis.Len() != 4 {
		t.Fatalf("len = %d, want 4", axis.Len())
	}

	wantDates := []string{"2026-10-19", "2026-10-20", "2026-10-21", "2026-10-22"}
	wantYears := []float64{3 / DaysPerYear, 2 / DaysPerYear, 1 / DaysPerYear, DefaultExpiryEpsilon}
	for i, p := range axis.Points {
		if got := p.Date.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("date[%d] = %s, want %s", i, got, wantDates[i])
		}
		if p.Years != wantYears[i] {
			t.Errorf("years[%d] = %g, want %g", i, p.Years, wantYears[i])
		}
	}

	last := axis.Points[3].Years
	if last == 0 || last != DefaultExpiryEpsilon {
		t.Errorf("last years = %g, want epsilon", last)
	}
}

func TestBuildTimeAxis_ExpiryToday(t *testing.T) {
	axis, err := BuildTimeAxis(refDate, 0, DefaultExpiryEpsilon)
	if err != nil {
		t.Fatal(err)
	}
	if axis.Len() != 1 || axis.Points[0].Years != DefaultExpiryEpsilon {
		t.Errorf("got %+v, want a single epsilon point", axis.Points)
	}
}

func TestBuildTimeAxis_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		epsilon float64
	}{
		{"expired", -1, DefaultExpiryEpsilon},
		{"zero epsilon", 3, 0},
		{"epsilon too large", 3, 1 / DaysPerYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildTimeAxis(refDate, tt.days, tt.epsilon); !apperrors.Is(err, apperrors.ErrAxisConstruction) {
				t.Errorf("error = %v, want ErrAxisConstruction", err)
			}
		})
	}
}

func TestBuildTimeAxis_CrossesDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ref := time.Date(2026, time.November, 1, 0, 30, 0, 0, ny)
	axis, err := BuildTimeAxis(ref, 2, DefaultExpiryEpsilon)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2026-11-01", "2026-11-02", "2026-11-03"}
	for i, p := range axis.Points {
		if got := p.Date.Format("2006-01-02"); got != want[i] {
			t.Errorf("date[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestDaysToExpiry(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"same day later hour", time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC), 0},
		{"next month", time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC), 30},
		{"past", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), -2},
		{"leap year span", time.Date(2028, 3, 1, 0, 0, 0, 0, time.UTC), 499},
		{"four centuries", time.Date(2426, 10, 19, 0, 0, 0, 0, time.UTC), 146097},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysToExpiry(refDate, tt.expiry); got != tt.want {
				t.Errorf("DaysToExpiry = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildTimeAxis_TooManyDays(t *testing.T) {
	_, err := BuildTimeAxis(refDate, MaxGridCells, DefaultExpiryEpsilon)
	if !apperrors.Is(err, apperrors.ErrAxisConstruction) {
		t.Errorf("error = %v, want ErrAxisConstruction", err)
	}
}

// Property: dates advance by one day and years strictly decrease down to epsilon.
func TestProperty_TimeAxisDecay(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("time axis has days+1 points with strictly decreasing years", prop.ForAll(
		func(days int, offset int) bool {
			ref := refDate.AddDate(0, 0, offset)
			axis, err := BuildTimeAxis(ref, days, DefaultExpiryEpsilon)
			if err != nil || axis.Len() != days+1 {
				return false
			}
			for i := 1; i < axis.Len(); i++ {
				prev, cur := axis.Points[i-1], axis.Points[i]
				if !cur.Date.Equal(prev.Date.AddDate(0, 0, 1)) {
					return false
				}
				if cur.Years >= prev.Years {
					return false
				}
			}
			last := axis.Points[days].Years
			return last > 0 && last == DefaultExpiryEpsilon
		},
		gen.IntRange(0, 800),
		gen.IntRange(-3000, 3000),
	))

	properties.TestingRun(t)
}
