// Package trend derives trailing percentage changes from the price history.
package trend

import (
	"sort"

	"price-tracker/internal/models"
)

// Conventional trailing windows, counted in recorded trading days.
const (
	WeekWindow  = 5
	MonthWindow = 22
)

// Change computes the percentage change of an instrument's price over the
// last `window` recorded trading days. Windows count history entries, not
// calendar days: weekends and holidays have no entry and simply don't count.
//
// Returns ok=false when fewer than two priced entries exist, or when the
// past value is zero. When the history is shorter than the window, the
// oldest available entry is used instead of failing.
func Change(entries []models.HistoryEntry, instrumentID string, window int) (float64, bool) {
	relevant := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := e.Prices[instrumentID]; ok {
			relevant = append(relevant, e)
		}
	}

	if len(relevant) < 2 {
		return 0, false
	}

	sort.Slice(relevant, func(i, j int) bool {
		return relevant[i].Date > relevant[j].Date
	})

	current := relevant[0].Prices[instrumentID]

	var past float64
	if len(relevant) <= window {
		past = relevant[len(relevant)-1].Prices[instrumentID]
	} else {
		past = relevant[window].Prices[instrumentID]
	}

	if past == 0 {
		return 0, false
	}

	return (current - past) / past * 100, true
}
