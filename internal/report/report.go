// Package report builds the human-readable Telegram messages: the daily
// digest, intraday alerts and the connectivity test.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"price-tracker/internal/alerts"
	"price-tracker/internal/models"
	"price-tracker/pkg/utils"
)

// GBP formats a GBP amount for display, e.g. "£1,234.56".
func GBP(v float64) string {
	return money.New(toMinorUnits(v), money.GBP).Display()
}

// USD formats a USD amount for display, e.g. "$8.13".
func USD(v float64) string {
	return money.New(toMinorUnits(v), money.USD).Display()
}

func toMinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

// signedGBP renders an amount with an explicit sign, for change lines.
func signedGBP(v float64) string {
	if v < 0 {
		return "-" + GBP(-v)
	}
	return "+" + GBP(v)
}

// InstrumentReport is one instrument's slot in the daily digest. A nil
// Price marks the instrument as unavailable for this cycle; it is shown
// explicitly rather than silently omitted.
type InstrumentReport struct {
	Instrument models.Instrument
	Price      *models.CanonicalPrice
	Weekly     *float64
	Monthly    *float64
}

// BuildDigest renders the daily summary message.
func BuildDigest(now time.Time, reports []InstrumentReport, rate *float64) string {
	lines := []string{
		"*Daily Investment Summary*",
		fmt.Sprintf("_%s_", now.Format("Monday, 02 January 2006")),
		"",
	}

	for _, r := range reports {
		inst := r.Instrument

		if r.Price == nil {
			lines = append(lines, fmt.Sprintf("*%s*: ⚠️ Data unavailable", inst.Name), "")
			continue
		}

		unitSuffix := ""
		if inst.Unit != "" {
			unitSuffix = " " + inst.Unit
		}

		lines = append(lines, fmt.Sprintf("%s *%s*", inst.Emoji, inst.Name))

		priceLine := fmt.Sprintf("   %s", GBP(r.Price.GBP))
		if r.Price.USD != nil {
			priceLine = fmt.Sprintf("   %s / %s", GBP(r.Price.GBP), USD(*r.Price.USD))
		}
		lines = append(lines, priceLine+unitSuffix)

		lines = append(lines, "   "+changeLine(r.Price.GBP, r.Price.PrevCloseGBP))

		if trends := trendLine(r.Weekly, r.Monthly); trends != "" {
			lines = append(lines, "   "+trends)
		}

		lines = append(lines, "")
	}

	if rate != nil {
		lines = append(lines, fmt.Sprintf("_GBP/USD: %s_", utils.FormatRate(*rate)))
	}

	return strings.Join(lines, "\n")
}

// changeLine formats the daily change vs. the previous close.
func changeLine(current, prevClose float64) string {
	change := current - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	indicator := "🟢"
	if change < 0 {
		indicator = "🔴"
	}
	return fmt.Sprintf("%s %s (%s)", indicator, signedGBP(change), utils.FormatPercent(changePct))
}

// trendLine joins the available trailing trends, e.g. "5d: +1.20% | 22d: -0.40%".
func trendLine(weekly, monthly *float64) string {
	var parts []string
	if weekly != nil {
		parts = append(parts, fmt.Sprintf("5d: %s", utils.FormatPercent(*weekly)))
	}
	if monthly != nil {
		parts = append(parts, fmt.Sprintf("22d: %s", utils.FormatPercent(*monthly)))
	}
	return strings.Join(parts, " | ")
}

// BuildAlerts renders the intraday alert message for the conditions that
// fired this cycle. names maps instrument IDs to display names.
func BuildAlerts(now time.Time, fired []alerts.Triggered, names map[string]string) string {
	blocks := make([]string, 0, len(fired))
	for _, f := range fired {
		blocks = append(blocks, alertBlock(f, names[f.InstrumentID]))
	}

	header := fmt.Sprintf("*Intraday Alert* (%s)\n\n", now.Format("15:04"))
	return header + strings.Join(blocks, "\n\n")
}

func alertBlock(f alerts.Triggered, name string) string {
	switch f.Kind {
	case alerts.KindSpike, alerts.KindDip:
		direction := "📈 SPIKE"
		if f.Kind == alerts.KindDip {
			direction = "📉 DIP"
		}
		return fmt.Sprintf("%s: *%s*\nCurrent: %s\nOpen: %s\nChange: %s (threshold: ±%g%%)",
			direction, name, GBP(f.Current), GBP(f.Open),
			utils.FormatPercent(f.ChangePct), f.Threshold)
	case alerts.KindAbove:
		return fmt.Sprintf("🔔 *%s* above %s!\nCurrent: %s",
			name, GBP(f.Threshold), GBP(f.Current))
	case alerts.KindBelow:
		return fmt.Sprintf("🔔 *%s* below %s!\nCurrent: %s",
			name, GBP(f.Threshold), GBP(f.Current))
	default:
		return fmt.Sprintf("⚠️ *%s*\nCurrent: %s", name, GBP(f.Current))
	}
}

// BuildTest renders the connectivity test message.
func BuildTest(now time.Time) string {
	return fmt.Sprintf(
		"✅ *Daily Price Tracker - Test*\n\n"+
			"Your Telegram integration is working correctly!\n\n"+
			"_Sent at %s London time_",
		now.Format("2006-01-02 15:04:05"))
}
