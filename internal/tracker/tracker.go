// Package tracker orchestrates the daily-summary and intraday-watch cycles.
package tracker

import (
	"context"

	"github.com/rs/zerolog"

	"price-tracker/internal/alerts"
	"price-tracker/internal/config"
	"price-tracker/internal/errors"
	"price-tracker/internal/history"
	"price-tracker/internal/logging"
	"price-tracker/internal/models"
	"price-tracker/internal/notify"
	"price-tracker/internal/provider"
	"price-tracker/internal/quote"
	"price-tracker/internal/report"
	"price-tracker/internal/trend"
	"price-tracker/pkg/utils"
)

// RatePair is the currency-pair symbol for the GBP/USD rate.
const RatePair = "GBPUSD=X"

// lookbackDays is the provider window for one quote: today plus the
// previous close.
const lookbackDays = 2

// Deps holds the collaborators of the tracker service.
type Deps struct {
	Config      *config.Config
	Instruments []models.Instrument
	Market      provider.MarketData
	Notifier    notify.Notifier
	History     *history.Store
	AlertState  *alerts.Store
	Logger      zerolog.Logger
}

// Service runs the three tracker operations. Each invocation is a single
// synchronous batch: stores are read once at the start of a cycle and
// written at most once at the end. Overlapping runs are not serialized
// here; the external scheduler is expected to space invocations out.
type Service struct {
	cfg         *config.Config
	instruments []models.Instrument
	market      provider.MarketData
	notifier    notify.Notifier
	history     *history.Store
	alertState  *alerts.Store
	logger      zerolog.Logger
}

// New creates a tracker service.
func New(d Deps) *Service {
	return &Service{
		cfg:         d.Config,
		instruments: d.Instruments,
		market:      d.Market,
		notifier:    d.Notifier,
		history:     d.History,
		alertState:  d.AlertState,
		logger:      d.Logger,
	}
}

// Summary generates and sends the daily digest, then records today's
// canonical prices in the history store.
func (s *Service) Summary(ctx context.Context) error {
	logger := logging.WithCommand(s.logger, "summary")
	logger.Info().Msg("Generating daily summary")

	rate := s.fetchRate(ctx, logger)

	h, err := s.history.Load()
	if err != nil {
		return err
	}

	today := utils.Today()
	prices := make(map[string]float64)
	reports := make([]report.InstrumentReport, 0, len(s.instruments))

	for _, inst := range s.instruments {
		price, err := s.fetchQuote(ctx, inst, rate)
		if err != nil {
			logger.Error().Err(err).Str("symbol", inst.Symbol).Msg("Instrument unavailable")
			reports = append(reports, report.InstrumentReport{Instrument: inst})
			continue
		}

		prices[inst.ID] = price.GBP

		r := report.InstrumentReport{Instrument: inst, Price: price}
		if weekly, ok := trend.Change(h.Entries, inst.ID, trend.WeekWindow); ok {
			r.Weekly = models.Float64Ptr(weekly)
		}
		if monthly, ok := trend.Change(h.Entries, inst.ID, trend.MonthWindow); ok {
			r.Monthly = models.Float64Ptr(monthly)
		}
		reports = append(reports, r)
	}

	// Record today's prices. Skipped entirely when every instrument failed:
	// an empty entry would poison the trend windows.
	if len(prices) > 0 {
		h.Upsert(today, prices, rate)
		if err := s.history.Save(h); err != nil {
			return err
		}
		logger.Info().Str("date", today).Int("instruments", len(prices)).Msg("Saved prices to history")
	}

	msg := report.BuildDigest(utils.Now(), reports, rate)
	if err := s.notifier.Send(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("Failed to send daily summary")
	}

	return nil
}

// Watch runs one intraday-alert evaluation cycle. The alert state is
// persisted at the end of every cycle regardless of whether anything
// fired, so a day reset that happened during loading is not lost.
func (s *Service) Watch(ctx context.Context) error {
	logger := logging.WithCommand(s.logger, "watch")
	logger.Info().Msg("Running intraday watch")

	state, err := s.alertState.Load()
	if err != nil {
		return err
	}

	rate := s.fetchRate(ctx, logger)

	var fired []alerts.Triggered
	names := make(map[string]string, len(s.instruments))

	for _, inst := range s.instruments {
		names[inst.ID] = inst.Name

		price, err := s.fetchQuote(ctx, inst, rate)
		if err != nil {
			// No alert key is recorded, so the instrument is re-evaluated
			// next cycle once data returns.
			logger.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Skipping instrument")
			continue
		}

		th := s.thresholds(inst.ID)
		for _, f := range alerts.Evaluate(state, inst, *price, th) {
			logging.LogAlert(logger, f.Key, f.InstrumentID, f.Current)
			fired = append(fired, f)
		}
	}

	if err := s.alertState.Save(state); err != nil {
		return err
	}

	if len(fired) == 0 {
		logger.Info().Msg("No new alerts to send")
		return nil
	}

	msg := report.BuildAlerts(utils.Now(), fired, names)
	if err := s.notifier.Send(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("Failed to send alerts")
	}

	return nil
}

// Test sends a connectivity test message. Unlike summary and watch,
// a dispatch failure here is the whole point of the command and is
// returned to the caller.
func (s *Service) Test(ctx context.Context) error {
	logger := logging.WithCommand(s.logger, "test")
	logger.Info().Msg("Sending test message")

	msg := report.BuildTest(utils.Now())
	if err := s.notifier.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "sending test message")
	}
	return nil
}

// fetchRate returns the current GBP/USD rate, or nil when unavailable.
// A missing rate degrades USD-native instruments, never the whole cycle.
func (s *Service) fetchRate(ctx context.Context, logger zerolog.Logger) *float64 {
	rate, err := s.market.ExchangeRate(ctx, RatePair)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not fetch exchange rate, USD instruments will be skipped")
		return nil
	}
	return &rate
}

// fetchQuote fetches and normalizes one instrument's quote.
func (s *Service) fetchQuote(ctx context.Context, inst models.Instrument, rate *float64) (*models.CanonicalPrice, error) {
	samples, err := s.market.History(ctx, inst.Symbol, lookbackDays)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.NewDataError(inst.Symbol, "no samples returned", errors.ErrDataUnavailable)
	}

	latest := samples[len(samples)-1]
	raw := models.RawQuote{
		InstrumentID: inst.ID,
		Current:      latest.Close,
		Open:         latest.Open,
		PrevClose:    latest.Open,
	}
	if len(samples) > 1 {
		raw.PrevClose = samples[len(samples)-2].Close
	}

	price, err := quote.Normalize(inst, raw, rate)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// thresholds assembles the alert thresholds for one instrument from the
// configuration.
func (s *Service) thresholds(instrumentID string) alerts.Thresholds {
	th := alerts.Thresholds{IntradayPct: s.cfg.IntradayThreshold(instrumentID)}
	if pa, ok := s.cfg.PriceAlerts[instrumentID]; ok {
		th.Above = pa.Above
		th.Below = pa.Below
	}
	return th
}
