// Package yahoo implements the market-data provider on top of the Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"price-tracker/internal/errors"
	"price-tracker/internal/httpx"
	"price-tracker/internal/provider"
	"price-tracker/pkg/utils"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily chart data from Yahoo Finance.
type Client struct {
	http    *httpx.Client
	baseURL string
	retry   utils.RetryConfig
	logger  zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg utils.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// New creates a Yahoo Finance client with the given request timeout.
func New(timeout time.Duration, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		http:    httpx.New(timeout),
		baseURL: defaultBaseURL,
		retry:   utils.DefaultRetryConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the subset of the chart API payload we consume.
// Price arrays may contain nulls for halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns up to `days` daily samples for a symbol, oldest first.
func (c *Client) History(ctx context.Context, symbol string, days int) ([]provider.Sample, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d", c.baseURL, symbol, days)

	body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		return nil, errors.NewDataError(symbol, "fetching chart", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewDataError(symbol, "decoding chart response", err)
	}

	if parsed.Chart.Error != nil {
		return nil, errors.NewDataError(symbol, parsed.Chart.Error.Description, errors.ErrDataUnavailable)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.NewDataError(symbol, "empty chart result", errors.ErrDataUnavailable)
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	samples := make([]provider.Sample, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.Close) {
			break
		}
		if quote.Open[i] == nil || quote.Close[i] == nil {
			continue
		}
		samples = append(samples, provider.Sample{
			Date:  time.Unix(ts, 0).In(utils.LondonLocation),
			Open:  *quote.Open[i],
			Close: *quote.Close[i],
		})
	}

	if len(samples) == 0 {
		return nil, errors.NewDataError(symbol, "no usable samples", errors.ErrDataUnavailable)
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Int("samples", len(samples)).
		Msg("Chart data fetched")

	return samples, nil
}

// ExchangeRate returns the last close of a currency-pair symbol over the
// most recent trading day.
func (c *Client) ExchangeRate(ctx context.Context, pair string) (float64, error) {
	samples, err := c.History(ctx, pair, 1)
	if err != nil {
		return 0, err
	}
	rate := samples[len(samples)-1].Close
	c.logger.Debug().Str("pair", pair).Float64("rate", rate).Msg("Exchange rate fetched")
	return rate, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.ErrDataUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
