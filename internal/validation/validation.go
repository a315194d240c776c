// Package validation parses and validates user-supplied evaluation inputs.
// Every function returns a value or a *ValidationError; nothing here prompts or retries.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// ExpiryLayout is the accepted expiry format, e.g. 2026/12/18.
const ExpiryLayout = "YYYY/MM/DD"

// symbolPattern allows exchange tickers such as BRK-B, RDS.A and ^GSPC.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=&-]{1,20}$`)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInputValidation
}

func invalid(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ValidateSymbol normalises and validates a ticker symbol.
func ValidateSymbol(symbol string) (string, error) {
	raw := symbol
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if symbol == "" {
		return "", invalid("symbol", raw, "symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return "", invalid("symbol", raw, "symbol too long (max 20 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", invalid("symbol", raw, "invalid symbol format")
	}
	return symbol, nil
}

// ParseStrike parses a positive strike price.
func ParseStrike(s string) (float64, error) {
	raw := s
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalid("strike", raw, "please enter a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, invalid("strike", raw, "strike must be a positive number")
	}
	return v, nil
}

// ParseExpiry parses a YYYY/MM/DD date that is not before today.
// Month and day may be written without padding.
func ParseExpiry(s string, today time.Time) (time.Time, error) {
	raw := s
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, invalid("expiry", raw, "expected "+ExpiryLayout)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, invalid("expiry", raw, "expected "+ExpiryLayout)
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	expiry := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if expiry.Year() != year || int(expiry.Month()) != month || expiry.Day() != day {
		return time.Time{}, invalid("expiry", raw, "not a calendar date")
	}

	y, m, d := today.Date()
	if expiry.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return time.Time{}, invalid("expiry", raw, "expiry is in the past")
	}
	return expiry, nil
}

// ParseOptionType accepts exactly "C" (call) or "P" (put).
func ParseOptionType(s string) (models.OptionType, error) {
	t := models.OptionType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", invalid("type", s, "enter 'C' for call or 'P' for put")
	}
	return t, nil
}

// ParseRange parses a "low-high" range of non-negative integer prices with low <= high.
func ParseRange(s string) (low, high int, err error) {
	raw := s
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, invalid("range", raw, "expected low-high, e.g. 100-200")
	}

	low, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, invalid("range", raw, "low bound must be a whole number")
	}
	high, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, invalid("range", raw, "high bound must be a whole number")
	}

	if low < 0 {
		return 0, 0, invalid("range", raw, "prices cannot be negative")
	}
	if high < low {
		return 0, 0, invalid("range", raw, "high bound is below low bound")
	}
	return low, high, nil
}

// ParseSpot parses a manual underlying price override.
func ParseSpot(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "$"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, invalid("spot", s, "underlying price must be a positive number")
	}
	return v, nil
}
