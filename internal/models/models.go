// Package models provides domain models for the option value grid.
package models

import (
	"time"
)

// MarketStatus represents the current market status.
type MarketStatus string

const (
	MarketOpen    MarketStatus = "OPEN"
	MarketPreOpen MarketStatus = "PRE_MARKET"
	MarketClosed  MarketStatus = "CLOSED"
)

// Quote represents a market quote for an underlying as returned by a quote provider.
type Quote struct {
	Symbol    string    `json:"symbol"`
	LTP       float64   `json:"ltp"`
	Close     float64   `json:"close,omitempty"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketSnapshot is the underlying price the evaluation runs against.
// It is built once from a quote (or a manual override) and never mutated.
type MarketSnapshot struct {
	Symbol          string    `json:"symbol,omitempty"`
	UnderlyingPrice float64   `json:"underlying_price"`
	AsOf            time.Time `json:"as_of"`
}

// SnapshotFromQuote builds a snapshot from a quote.
func SnapshotFromQuote(q *Quote) MarketSnapshot {
	return MarketSnapshot{
		Symbol:          q.Symbol,
		UnderlyingPrice: q.LTP,
		AsOf:            q.Timestamp,
	}
}
