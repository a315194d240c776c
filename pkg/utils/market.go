package utils

import (
	"time"

	"options-pricer/internal/models"
)

// NewYorkLocation is the timezone for US equity and options markets.
var NewYorkLocation *time.Location

func init() {
	var err error
	NewYorkLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to EST; DST is ignored without tzdata
		NewYorkLocation = time.FixedZone("EST", -5*60*60)
	}
}

// MarketStatusAt returns the regular-session status at t.
// Exchange holidays are not modelled.
func MarketStatusAt(t time.Time) models.MarketStatus {
	now := t.In(NewYorkLocation)

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return models.MarketClosed
	}

	timeMinutes := now.Hour()*60 + now.Minute()

	// Pre-market: 4:00 - 9:30
	if timeMinutes >= 240 && timeMinutes < 570 {
		return models.MarketPreOpen
	}

	// Regular session: 9:30 - 16:00
	if timeMinutes >= 570 && timeMinutes < 960 {
		return models.MarketOpen
	}

	return models.MarketClosed
}

// NextMarketOpen returns the next regular-session open after t.
func NextMarketOpen(t time.Time) time.Time {
	now := t.In(NewYorkLocation)

	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, NewYorkLocation)
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
