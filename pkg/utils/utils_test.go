package utils

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-pricer/internal/models"
)

var errTransient = errors.New("transient")

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestRetryWithResult_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("got %d, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithResult_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := RetryWithResult(context.Background(), fastRetry(4), func() (string, error) {
		calls++
		return "", errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("error = %v, want last error", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestRetryWithResult_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := fastRetry(5)
	cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Retry(context.Background(), cfg, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("err = %v, calls = %d; want permanent after 1 call", err, calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, BackoffFactor: 1}

	calls := 0
	err := Retry(ctx, cfg, func() error {
		calls++
		cancel()
		return errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), RetryConfig{}, func() error {
		calls++
		return errTransient
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{10, time.Second},
	}
	for _, tt := range tests {
		if got := CalculateBackoff(tt.attempt, 100*time.Millisecond, time.Second, 2); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := map[float64]string{
		0:           "$0.00",
		3.469:       "$3.47",
		999.5:       "$999.50",
		1000:        "$1,000.00",
		123456.789:  "$123,456.79",
		-1234567.25: "-$1,234,567.25",
	}
	for in, want := range tests {
		if got := FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(1.254); got != "+1.25" {
		t.Errorf("got %q", got)
	}
	if got := FormatChange(-0.5); got != "-0.50" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(PercentChange(200, 210)); got != "+5.00%" {
		t.Errorf("got %q", got)
	}
	if PercentChange(0, 10) != 0 {
		t.Error("percent change without a base should be 0")
	}
}

func TestMarketStatusAt(t *testing.T) {
	ny := NewYorkLocation
	tests := []struct {
		name string
		at   time.Time
		want models.MarketStatus
	}{
		{"monday open", time.Date(2026, 10, 19, 10, 0, 0, 0, ny), models.MarketOpen},
		{"monday pre-market", time.Date(2026, 10, 19, 8, 0, 0, 0, ny), models.MarketPreOpen},
		{"monday after close", time.Date(2026, 10, 19, 16, 0, 0, 0, ny), models.MarketClosed},
		{"saturday", time.Date(2026, 10, 24, 11, 0, 0, 0, ny), models.MarketClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarketStatusAt(tt.at); got != tt.want {
				t.Errorf("MarketStatusAt = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextMarketOpen(t *testing.T) {
	ny := NewYorkLocation
	friday := time.Date(2026, 10, 23, 17, 0, 0, 0, ny)
	want := time.Date(2026, 10, 26, 9, 30, 0, 0, ny)
	if got := NextMarketOpen(friday); !got.Equal(want) {
		t.Errorf("NextMarketOpen = %v, want %v", got, want)
	}
}

// Property: grouping removes exactly the commas it inserted.
func TestProperty_FormatCurrencyDigits(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grouped digits match the plain rendering", prop.ForAll(
		func(cents int64) bool {
			amount := float64(cents) / 100
			formatted := FormatCurrency(amount)
			plain := ""
			for _, r := range formatted {
				if r != ',' && r != '$' {
					plain += string(r)
				}
			}
			return plain == strconv.FormatFloat(amount, 'f', 2, 64)
		},
		gen.Int64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}

