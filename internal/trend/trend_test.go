package trend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"price-tracker/internal/models"
)

// entriesFor builds one entry per price, dated consecutively so that the
// last price in the slice is the most recent.
func entriesFor(id string, prices ...float64) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(prices))
	for i, p := range prices {
		entries = append(entries, models.HistoryEntry{
			Date:   fmt.Sprintf("2025-03-%02d", i+1),
			Prices: map[string]float64{id: p},
		})
	}
	return entries
}

func TestChange_FewerThanTwoEntries(t *testing.T) {
	_, ok := Change(nil, "iswd", WeekWindow)
	assert.False(t, ok)

	_, ok = Change(entriesFor("iswd", 6.5), "iswd", WeekWindow)
	assert.False(t, ok)
}

func TestChange_ShortHistoryUsesOldestEntry(t *testing.T) {
	// 3 entries with window 5: past is the oldest (100), current is 110.
	entries := entriesFor("iswd", 100, 105, 110)

	got, ok := Change(entries, "iswd", WeekWindow)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestChange_LongHistoryUsesWindowedEntry(t *testing.T) {
	// 8 entries with window 5: past is exactly 5 positions back from the
	// newest in date-descending order, i.e. the entry at 104.
	entries := entriesFor("iswd", 101, 102, 103, 104, 105, 106, 107, 130)

	got, ok := Change(entries, "iswd", WeekWindow)
	assert.True(t, ok)
	assert.InDelta(t, (130.0-104.0)/104.0*100, got, 1e-9)
}

func TestChange_ExactWindowCountUsesOldest(t *testing.T) {
	// count == window: still graceful degradation to the oldest entry.
	entries := entriesFor("iswd", 100, 101, 102, 103, 110)

	got, ok := Change(entries, "iswd", WeekWindow)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestChange_ZeroPastValue(t *testing.T) {
	entries := entriesFor("iswd", 0, 110)

	_, ok := Change(entries, "iswd", WeekWindow)
	assert.False(t, ok)
}

func TestChange_IgnoresEntriesWithoutInstrument(t *testing.T) {
	entries := []models.HistoryEntry{
		{Date: "2025-03-01", Prices: map[string]float64{"iswd": 100}},
		{Date: "2025-03-02", Prices: map[string]float64{"hbks": 50}},
		{Date: "2025-03-03", Prices: map[string]float64{"iswd": 120}},
	}

	got, ok := Change(entries, "iswd", WeekWindow)
	assert.True(t, ok)
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestChange_UnsortedInputIsSortedByDate(t *testing.T) {
	entries := []models.HistoryEntry{
		{Date: "2025-03-05", Prices: map[string]float64{"iswd": 120}},
		{Date: "2025-03-01", Prices: map[string]float64{"iswd": 100}},
		{Date: "2025-03-03", Prices: map[string]float64{"iswd": 90}},
	}

	got, ok := Change(entries, "iswd", MonthWindow)
	assert.True(t, ok)
	assert.InDelta(t, 20.0, got, 1e-9)
}
