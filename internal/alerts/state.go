// Package alerts tracks day-scoped alert firing state and decides which
// newly-triggered conditions are eligible to fire.
package alerts

import (
	"encoding/json"
	"os"
	"path/filepath"

	"price-tracker/internal/errors"
	"price-tracker/pkg/utils"
)

// State is the set of alert keys that have already fired on Date. It is
// self-pruning: loading on a new calendar date discards the old set.
type State struct {
	Date  string   `json:"date"`
	Fired []string `json:"fired"`
}

// HasFired reports whether the key already fired today.
func (s *State) HasFired(key string) bool {
	for _, k := range s.Fired {
		if k == key {
			return true
		}
	}
	return false
}

// MarkFired records a key in the fired set. Idempotent.
func (s *State) MarkFired(key string) {
	if !s.HasFired(key) {
		s.Fired = append(s.Fired, key)
	}
}

// Store reads and rewrites the alert-state document.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads today's alert state. A missing file yields an empty state.
// A persisted date other than today (reference timezone) resets the state
// to an empty set stamped with today; this is the only reset transition.
// A malformed file is fatal.
func (s *Store) Load() (*State, error) {
	today := utils.Today()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Date: today, Fired: []string{}}, nil
		}
		return nil, errors.Wrapf(err, "reading alert state %s", s.path)
	}

	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, errors.Wrapf(errors.ErrStoreCorrupt, "alert state %s: %v", s.path, err)
	}

	if st.Date != today {
		return &State{Date: today, Fired: []string{}}, nil
	}
	if st.Fired == nil {
		st.Fired = []string{}
	}
	return st, nil
}

// Save rewrites the document, restamping today's date. Called at the end
// of every evaluation cycle even when nothing fired, so that a reset that
// happened during Load is not lost.
func (s *Store) Save(st *State) error {
	st.Date = utils.Today()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding alert state")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing alert state %s", s.path)
	}
	return nil
}
