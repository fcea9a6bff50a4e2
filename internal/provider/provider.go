// Package provider defines the market-data interface consumed by the
// tracker and its concrete implementations.
package provider

import (
	"context"
	"time"
)

// Sample is one daily (date, open, close) observation for a symbol.
type Sample struct {
	Date  time.Time
	Open  float64
	Close float64
}

// MarketData supplies daily price samples and the current bilateral
// exchange rate. Implementations return errors.ErrDataUnavailable (wrapped)
// when the upstream has no usable data for a symbol.
type MarketData interface {
	// History returns up to `days` most recent daily samples for a market
	// symbol, oldest first.
	History(ctx context.Context, symbol string, days int) ([]Sample, error)

	// ExchangeRate returns the current rate for a currency pair symbol
	// such as "GBPUSD=X".
	ExchangeRate(ctx context.Context, pair string) (float64, error)
}
