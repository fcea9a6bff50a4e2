package alerts

import (
	"math"

	"price-tracker/internal/models"
)

// Kind discriminates the alert conditions. A tagged enumeration is enough;
// each kind owns a disjoint key space.
type Kind string

const (
	KindSpike Kind = "spike"
	KindDip   Kind = "dip"
	KindAbove Kind = "above"
	KindBelow Kind = "below"
)

// Thresholds holds the alert configuration for one instrument.
type Thresholds struct {
	IntradayPct float64  // move vs. open, absolute percentage
	Above       *float64 // GBP, nil when unset
	Below       *float64 // GBP, nil when unset
}

// Triggered describes one alert condition that fired this cycle.
type Triggered struct {
	Key          string
	Kind         Kind
	InstrumentID string
	Current      float64 // GBP
	Open         float64 // GBP
	ChangePct    float64 // intraday kinds only
	Threshold    float64 // percentage for intraday, GBP price for absolute
}

// Evaluate checks one instrument's canonical price against its thresholds,
// records newly-fired keys in the state, and returns the conditions that
// are eligible to fire. Keys already in the fired set are skipped. The
// intraday check runs before the absolute checks.
func Evaluate(state *State, inst models.Instrument, price models.CanonicalPrice, th Thresholds) []Triggered {
	var fired []Triggered

	// Intraday move vs. today's open.
	if price.OpenGBP != 0 {
		changePct := (price.GBP - price.OpenGBP) / price.OpenGBP * 100
		if math.Abs(changePct) >= th.IntradayPct {
			key := IntradayKey(inst.ID, changePct > 0)
			if !state.HasFired(key) {
				kind := KindDip
				if changePct > 0 {
					kind = KindSpike
				}
				fired = append(fired, Triggered{
					Key:          key,
					Kind:         kind,
					InstrumentID: inst.ID,
					Current:      price.GBP,
					Open:         price.OpenGBP,
					ChangePct:    changePct,
					Threshold:    th.IntradayPct,
				})
				state.MarkFired(key)
			}
		}
	}

	// Absolute thresholds. Above and below are independent keys: both may
	// fire on the same day when both bounds are configured and crossed.
	if th.Above != nil && price.GBP >= *th.Above {
		key := AboveKey(inst.ID)
		if !state.HasFired(key) {
			fired = append(fired, Triggered{
				Key:          key,
				Kind:         KindAbove,
				InstrumentID: inst.ID,
				Current:      price.GBP,
				Threshold:    *th.Above,
			})
			state.MarkFired(key)
		}
	}

	if th.Below != nil && price.GBP <= *th.Below {
		key := BelowKey(inst.ID)
		if !state.HasFired(key) {
			fired = append(fired, Triggered{
				Key:          key,
				Kind:         KindBelow,
				InstrumentID: inst.ID,
				Current:      price.GBP,
				Threshold:    *th.Below,
			})
			state.MarkFired(key)
		}
	}

	return fired
}
