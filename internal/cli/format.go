package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDateFormat is the date layout used in the grid header.
const DefaultDateFormat = "2006/01/02"

// FormatPrice formats a price to cents.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatAmount formats a value without trailing zeros, e.g. 100 or 102.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPriceLabel formats a price axis label, e.g. "$105".
func FormatPriceLabel(price float64) string {
	return "$" + FormatAmount(price)
}

// FormatDate formats a calendar date with layout, falling back to YYYY/MM/DD.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.Format(layout)
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// FormatPercentage formats a fraction as a percentage, e.g. 0.3 -> "30.00%".
func FormatPercentage(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if n := visibleLen(s); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if n := visibleLen(s); n < length {
		return strings.Repeat(" ", length-n) + s
	}
	return s
}
