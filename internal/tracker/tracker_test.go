package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-tracker/internal/alerts"
	"price-tracker/internal/config"
	"price-tracker/internal/errors"
	"price-tracker/internal/history"
	"price-tracker/internal/models"
	"price-tracker/internal/provider"
	"price-tracker/pkg/utils"
)

// fakeMarket serves canned samples per symbol.
type fakeMarket struct {
	histories map[string][]provider.Sample
	histErr   map[string]error
	rate      float64
	rateErr   error
}

func (f *fakeMarket) History(ctx context.Context, symbol string, days int) ([]provider.Sample, error) {
	if err, ok := f.histErr[symbol]; ok {
		return nil, err
	}
	samples, ok := f.histories[symbol]
	if !ok {
		return nil, errors.NewDataError(symbol, "no data", errors.ErrDataUnavailable)
	}
	return samples, nil
}

func (f *fakeMarket) ExchangeRate(ctx context.Context, pair string) (float64, error) {
	if f.rateErr != nil {
		return 0, f.rateErr
	}
	return f.rate, nil
}

// fakeNotifier records sent messages.
type fakeNotifier struct {
	sent    []string
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func twoDaySamples(open1, close1, open2, close2 float64) []provider.Sample {
	base := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	return []provider.Sample{
		{Date: base, Open: open1, Close: close1},
		{Date: base.AddDate(0, 0, 1), Open: open2, Close: close2},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Intraday: config.IntradayConfig{
			DefaultThresholdPct: 2.0,
			Thresholds:          map[string]float64{},
		},
		PriceAlerts: map[string]config.PriceAlert{},
	}
}

func testInstruments() []models.Instrument {
	return []models.Instrument{
		{ID: "gold_gbp", Symbol: "GC=F", Name: "Gold", Emoji: "🥇", NativeCurrency: models.USD, Unit: "per oz"},
		{ID: "iswd", Symbol: "ISWD.L", Name: "ISWD", Emoji: "📈", NativeCurrency: models.GBP},
	}
}

func newService(t *testing.T, cfg *config.Config, market *fakeMarket, notifier *fakeNotifier) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc := New(Deps{
		Config:      cfg,
		Instruments: testInstruments(),
		Market:      market,
		Notifier:    notifier,
		History:     history.NewStore(filepath.Join(dir, "price_history.json")),
		AlertState:  alerts.NewStore(filepath.Join(dir, "alerts_state.json")),
		Logger:      zerolog.Nop(),
	})
	return svc, dir
}

func TestSummary_SendsDigestAndRecordsHistory(t *testing.T) {
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			"GC=F":   twoDaySamples(1980, 1985, 1990, 2000),
			"ISWD.L": twoDaySamples(630, 635, 640, 650), // pence
		},
	}
	notifier := &fakeNotifier{}
	svc, dir := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Summary(context.Background()))

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Contains(t, msg, "🥇 *Gold*")
	assert.Contains(t, msg, "📈 *ISWD*")
	assert.Contains(t, msg, "_GBP/USD: 1.2500_")

	h, err := history.NewStore(filepath.Join(dir, "price_history.json")).Load()
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	entry := h.Entries[0]
	assert.Equal(t, utils.Today(), entry.Date)
	assert.InDelta(t, 1600.0, entry.Prices["gold_gbp"], 1e-9) // 2000 USD / 1.25
	assert.InDelta(t, 6.50, entry.Prices["iswd"], 1e-9)       // 650p -> £6.50
	require.NotNil(t, entry.GBPUSDRate)
	assert.Equal(t, 1.25, *entry.GBPUSDRate)
}

func TestSummary_UnavailableInstrumentIsMarkedNotOmitted(t *testing.T) {
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			"ISWD.L": twoDaySamples(630, 635, 640, 650),
		},
		histErr: map[string]error{
			"GC=F": errors.NewDataError("GC=F", "no data", errors.ErrDataUnavailable),
		},
	}
	notifier := &fakeNotifier{}
	svc, dir := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Summary(context.Background()))

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "*Gold*: ⚠️ Data unavailable")

	h, err := history.NewStore(filepath.Join(dir, "price_history.json")).Load()
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	_, hasGold := h.Entries[0].Prices["gold_gbp"]
	assert.False(t, hasGold)
}

func TestSummary_NoRateSkipsUSDNativeOnly(t *testing.T) {
	market := &fakeMarket{
		rateErr: errors.ErrRateUnavailable,
		histories: map[string][]provider.Sample{
			"GC=F":   twoDaySamples(1980, 1985, 1990, 2000),
			"ISWD.L": twoDaySamples(630, 635, 640, 650),
		},
	}
	notifier := &fakeNotifier{}
	svc, _ := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Summary(context.Background()))

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Contains(t, msg, "*Gold*: ⚠️ Data unavailable")
	assert.Contains(t, msg, "£6.50")
	assert.NotContains(t, msg, "GBP/USD:")
}

func TestSummary_AllInstrumentsFailSkipsHistoryWrite(t *testing.T) {
	market := &fakeMarket{rate: 1.25, histories: map[string][]provider.Sample{}}
	notifier := &fakeNotifier{}
	svc, dir := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Summary(context.Background()))

	_, err := os.Stat(filepath.Join(dir, "price_history.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSummary_CorruptHistoryIsFatal(t *testing.T) {
	market := &fakeMarket{rate: 1.25, histories: map[string][]provider.Sample{}}
	svc, dir := newService(t, testConfig(), market, &fakeNotifier{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "price_history.json"), []byte("{oops"), 0644))

	err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreCorrupt))
}

func TestSummary_DispatchFailureDoesNotFailCycle(t *testing.T) {
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			"GC=F":   twoDaySamples(1980, 1985, 1990, 2000),
			"ISWD.L": twoDaySamples(630, 635, 640, 650),
		},
	}
	notifier := &fakeNotifier{sendErr: errors.ErrDispatchFailed}
	svc, dir := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Summary(context.Background()))

	// State was still persisted.
	h, err := history.NewStore(filepath.Join(dir, "price_history.json")).Load()
	require.NoError(t, err)
	assert.Len(t, h.Entries, 1)
}

func TestWatch_FiresSpikeOnceAcrossCycles(t *testing.T) {
	cfg := testConfig()
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			// ISWD up 3% vs open: 640p -> 659.2p.
			"ISWD.L": twoDaySamples(630, 635, 640, 659.2),
		},
		histErr: map[string]error{
			"GC=F": errors.NewDataError("GC=F", "no data", errors.ErrDataUnavailable),
		},
	}
	notifier := &fakeNotifier{}
	svc, _ := newService(t, cfg, market, notifier)

	require.NoError(t, svc.Watch(context.Background()))
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "📈 SPIKE: *ISWD*")

	// Same condition next cycle: deduplicated by the persisted state.
	require.NoError(t, svc.Watch(context.Background()))
	assert.Len(t, notifier.sent, 1)
}

func TestWatch_AbsoluteThresholds(t *testing.T) {
	cfg := testConfig()
	above := 6.0
	cfg.PriceAlerts["iswd"] = config.PriceAlert{Above: &above}
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			"ISWD.L": twoDaySamples(630, 635, 645, 650), // £6.50 >= £6.00
		},
		histErr: map[string]error{
			"GC=F": errors.NewDataError("GC=F", "no data", errors.ErrDataUnavailable),
		},
	}
	notifier := &fakeNotifier{}
	svc, _ := newService(t, cfg, market, notifier)

	require.NoError(t, svc.Watch(context.Background()))
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "🔔 *ISWD* above £6.00!")
}

func TestWatch_StateSavedEvenWithoutAlerts(t *testing.T) {
	market := &fakeMarket{
		rate: 1.25,
		histories: map[string][]provider.Sample{
			"GC=F":   twoDaySamples(1980, 1985, 1990, 1992),
			"ISWD.L": twoDaySamples(630, 635, 640, 642),
		},
	}
	notifier := &fakeNotifier{}
	svc, dir := newService(t, testConfig(), market, notifier)

	require.NoError(t, svc.Watch(context.Background()))
	assert.Empty(t, notifier.sent)

	state, err := alerts.NewStore(filepath.Join(dir, "alerts_state.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, utils.Today(), state.Date)
	assert.Empty(t, state.Fired)

	// The file itself exists: the reset was persisted.
	_, err = os.Stat(filepath.Join(dir, "alerts_state.json"))
	assert.NoError(t, err)
}

func TestWatch_FailedInstrumentRecordsNoKey(t *testing.T) {
	cfg := testConfig()
	market := &fakeMarket{
		rate:    1.25,
		histErr: map[string]error{"GC=F": errors.ErrDataUnavailable, "ISWD.L": errors.ErrDataUnavailable},
	}
	svc, dir := newService(t, cfg, market, &fakeNotifier{})

	require.NoError(t, svc.Watch(context.Background()))

	state, err := alerts.NewStore(filepath.Join(dir, "alerts_state.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, state.Fired)
}

func TestTest_PropagatesDispatchFailure(t *testing.T) {
	svc, _ := newService(t, testConfig(), &fakeMarket{}, &fakeNotifier{sendErr: errors.ErrDispatchFailed})

	err := svc.Test(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDispatchFailed))

	svcOK, _ := newService(t, testConfig(), &fakeMarket{}, &fakeNotifier{})
	assert.NoError(t, svcOK.Test(context.Background()))
}
