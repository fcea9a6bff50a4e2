package alerts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-tracker/internal/errors"
	"price-tracker/pkg/utils"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "alerts_state.json"))
}

func TestLoad_MissingFileYieldsEmptyStateForToday(t *testing.T) {
	s := tempStore(t)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, utils.Today(), st.Date)
	assert.Empty(t, st.Fired)
}

func TestLoad_StaleDateResetsFiredSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts_state.json")
	stale := State{Date: "2020-01-01", Fired: []string{"intraday_iswd_+", "price_above_gold_gbp"}}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	st, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, utils.Today(), st.Date)
	assert.Empty(t, st.Fired)
}

func TestLoad_SameDayKeepsFiredSet(t *testing.T) {
	s := tempStore(t)
	st := &State{Fired: []string{"intraday_iswd_+"}}
	require.NoError(t, s.Save(st))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"intraday_iswd_+"}, loaded.Fired)
}

func TestLoad_MalformedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts_state.json")
	require.NoError(t, os.WriteFile(path, []byte("]["), 0644))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreCorrupt))
}

func TestSave_RestampsDateEvenWhenNothingFired(t *testing.T) {
	s := tempStore(t)

	st := &State{Date: "2020-01-01", Fired: []string{}}
	require.NoError(t, s.Save(st))
	assert.Equal(t, utils.Today(), st.Date)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, utils.Today(), loaded.Date)
	assert.Empty(t, loaded.Fired)
}

func TestMarkFired_Idempotent(t *testing.T) {
	st := &State{}
	st.MarkFired("price_above_iswd")
	st.MarkFired("price_above_iswd")

	assert.Equal(t, []string{"price_above_iswd"}, st.Fired)
	assert.True(t, st.HasFired("price_above_iswd"))
	assert.False(t, st.HasFired("price_below_iswd"))
}
