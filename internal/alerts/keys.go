package alerts

import "fmt"

// Alert keys are the deduplication identity for one condition within one
// calendar day: kind x instrument x direction. The string layout matches
// the persisted state produced by earlier deployments.

// IntradayKey returns the key for an intraday move alert. Positive and
// negative moves are distinct keys, so a spike and a later dip on the same
// instrument can each fire once per day.
func IntradayKey(instrumentID string, positive bool) string {
	sign := "-"
	if positive {
		sign = "+"
	}
	return fmt.Sprintf("intraday_%s_%s", instrumentID, sign)
}

// AboveKey returns the key for an absolute above-threshold alert.
func AboveKey(instrumentID string) string {
	return fmt.Sprintf("price_above_%s", instrumentID)
}

// BelowKey returns the key for an absolute below-threshold alert.
func BelowKey(instrumentID string) string {
	return fmt.Sprintf("price_below_%s", instrumentID)
}
