package pricing

import (
	"fmt"
	"time"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// BuildTimeAxis builds one point per calendar day from ref through ref+daysToExpiry.
// Each point carries (daysToExpiry-i)/365 years; the expiry point carries epsilon.
func BuildTimeAxis(ref time.Time, daysToExpiry int, epsilon float64) (models.TimeAxis, error) {
	if daysToExpiry < 0 {
		return models.TimeAxis{}, apperrors.NewAxisConstructionError("time", fmt.Sprintf("expiry is %d days in the past", -daysToExpiry))
	}
	if daysToExpiry >= MaxGridCells {
		return models.TimeAxis{}, apperrors.NewAxisConstructionError("time", fmt.Sprintf("expiry is %d days away, limit is %d", daysToExpiry, MaxGridCells-1))
	}
	if !(epsilon > 0 && epsilon < 1/DaysPerYear) {
		return models.TimeAxis{}, apperrors.NewAxisConstructionError("time", fmt.Sprintf("epsilon %g must be in (0, 1/%g)", epsilon, DaysPerYear))
	}

	start := civilDate(ref)
	points := make([]models.TimePoint, daysToExpiry+1)
	for i := range points {
		points[i] = models.TimePoint{
			Date:  start.AddDate(0, 0, i),
			Years: float64(daysToExpiry-i) / DaysPerYear,
		}
	}
	points[daysToExpiry].Years = epsilon

	return models.TimeAxis{
		DaysToExpiry: daysToExpiry,
		Points:       points,
	}, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysToExpiry counts calendar days from ref to expiry, ignoring time of day.
// It is negative when expiry is before ref. Unix seconds avoid the ~292 year
// ceiling of time.Duration.
func DaysToExpiry(ref, expiry time.Time) int {
	a := civilDate(ref).Unix()
	b := civilDate(expiry).Unix()
	return int((b - a) / secondsPerDay)
}

// civilDate drops the clock and zone of t, keeping its calendar date in UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
