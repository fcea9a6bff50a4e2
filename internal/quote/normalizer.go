// Package quote converts raw market quotes into canonical prices expressed
// in both reference currencies.
package quote

import (
	"price-tracker/internal/errors"
	"price-tracker/internal/models"
)

// PenceThreshold is the cutoff for the pence-vs-pounds heuristic. LSE
// listings sometimes quote in pence; a raw value above this is assumed to
// be pence. The rule is a documented approximation and is not reliable for
// instruments trading near the boundary.
const PenceThreshold = 100

// Normalize converts a raw quote into a canonical price. rate is the
// current GBP/USD rate (USD per GBP), or nil when unavailable.
//
// A USD-native instrument cannot be normalized without a rate and fails
// with ErrRateUnavailable. A GBP-native instrument without a rate keeps
// its GBP fields and leaves the USD fields absent.
func Normalize(inst models.Instrument, raw models.RawQuote, rate *float64) (models.CanonicalPrice, error) {
	current, open, prevClose := raw.Current, raw.Open, raw.PrevClose

	// Pence correction applies to all three fields together, so that the
	// daily-change arithmetic stays consistent.
	if inst.PenceQuoted() && current > PenceThreshold {
		current /= 100
		open /= 100
		prevClose /= 100
	}

	switch inst.NativeCurrency {
	case models.USD:
		return normalizeUSDNative(inst, current, open, prevClose, rate)
	default:
		return normalizeGBPNative(inst, current, open, prevClose, rate), nil
	}
}

// normalizeUSDNative derives the GBP fields by dividing by the rate. No
// rate means no canonical price at all.
func normalizeUSDNative(inst models.Instrument, current, open, prevClose float64, rate *float64) (models.CanonicalPrice, error) {
	if rate == nil {
		return models.CanonicalPrice{}, errors.NewDataError(inst.Symbol,
			"cannot convert to GBP", errors.ErrRateUnavailable)
	}

	return models.CanonicalPrice{
		InstrumentID: inst.ID,
		GBP:          current / *rate,
		OpenGBP:      open / *rate,
		PrevCloseGBP: prevClose / *rate,
		USD:          models.Float64Ptr(current),
		OpenUSD:      models.Float64Ptr(open),
		PrevCloseUSD: models.Float64Ptr(prevClose),
	}, nil
}

// normalizeGBPNative uses the raw values directly for GBP and derives the
// USD fields by multiplying by the rate when one is available.
func normalizeGBPNative(inst models.Instrument, current, open, prevClose float64, rate *float64) models.CanonicalPrice {
	price := models.CanonicalPrice{
		InstrumentID: inst.ID,
		GBP:          current,
		OpenGBP:      open,
		PrevCloseGBP: prevClose,
	}

	if rate != nil {
		price.USD = models.Float64Ptr(current * *rate)
		price.OpenUSD = models.Float64Ptr(open * *rate)
		price.PrevCloseUSD = models.Float64Ptr(prevClose * *rate)
	}

	return price
}
