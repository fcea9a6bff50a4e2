// Package history persists the rolling record of daily canonical prices.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"price-tracker/internal/errors"
	"price-tracker/internal/models"
	"price-tracker/pkg/utils"
)

// RetentionDays is the rolling retention window for history entries,
// measured in calendar days from "now" in the reference timezone.
const RetentionDays = 90

// History is the whole-file JSON document backing the store.
type History struct {
	Entries []models.HistoryEntry `json:"entries"`
}

// Store reads and rewrites the history document. The file is read once at
// the start of a cycle and written at most once at the end; overlapping
// runs are not protected against (external scheduling serializes cycles).
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the history document. A missing file is an empty history; a
// malformed one is fatal and never auto-repaired.
func (s *Store) Load() (*History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, errors.Wrapf(err, "reading history %s", s.path)
	}

	h := &History{}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreCorrupt, "history %s: %v", s.path, err)
	}
	return h, nil
}

// Save trims entries older than the retention window and rewrites the
// whole document.
func (s *Store) Save(h *History) error {
	cutoff := utils.CutoffDate(RetentionDays)
	kept := h.Entries[:0]
	for _, e := range h.Entries {
		if e.Date >= cutoff {
			kept = append(kept, e)
		}
	}
	h.Entries = kept

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing history %s", s.path)
	}
	return nil
}

// Upsert replaces the entry for the given date, or appends one if the date
// has no entry yet. Dates are unique: two writes on the same date leave a
// single entry reflecting the second write.
func (h *History) Upsert(date string, prices map[string]float64, rate *float64) {
	entry := models.HistoryEntry{Date: date, Prices: prices, GBPUSDRate: rate}
	for i, e := range h.Entries {
		if e.Date == date {
			h.Entries[i] = entry
			return
		}
	}
	h.Entries = append(h.Entries, entry)
}
