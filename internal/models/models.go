// Package models defines the core data types shared across the tracker.
package models

import "strings"

// Currency identifies one of the two reference currencies.
type Currency string

const (
	GBP Currency = "GBP"
	USD Currency = "USD"
)

// Instrument describes one tracked asset. The set of instruments is fixed
// at startup and passed into components as an immutable slice.
type Instrument struct {
	ID             string   // stable identifier, used as the history/alert key
	Symbol         string   // market symbol, e.g. "GC=F" or "ISWD.L"
	Name           string   // display name
	Emoji          string   // digest header marker
	NativeCurrency Currency // GBP or USD
	Unit           string   // display unit label, e.g. "per oz"
}

// PenceQuoted reports whether the instrument trades on a market that is
// known to sometimes quote in pence rather than pounds (LSE listings).
func (i Instrument) PenceQuoted() bool {
	return strings.HasSuffix(i.Symbol, ".L")
}

// RawQuote holds prices as returned by the market, in the market's native
// quoting convention. A pence-quoted value has not yet been corrected.
type RawQuote struct {
	InstrumentID string
	Current      float64
	Open         float64
	PrevClose    float64
}

// CanonicalPrice is a quote normalized into both reference currencies.
// The USD fields are nil when the exchange rate was unavailable and the
// instrument is GBP-native; a USD-native instrument cannot be normalized
// at all without a rate.
type CanonicalPrice struct {
	InstrumentID string
	GBP          float64
	OpenGBP      float64
	PrevCloseGBP float64
	USD          *float64
	OpenUSD      *float64
	PrevCloseUSD *float64
}

// HistoryEntry records the canonical GBP prices for one calendar date
// (reference timezone). Entries are unique per date.
type HistoryEntry struct {
	Date       string             `json:"date"` // YYYY-MM-DD
	Prices     map[string]float64 `json:"prices"`
	GBPUSDRate *float64           `json:"gbp_usd_rate"`
}

// Float64Ptr returns a pointer to v. Convenience for the optional fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
