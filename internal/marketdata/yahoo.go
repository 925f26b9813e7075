package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/api"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// ErrNoData means the provider returned no usable candles for the ticker.
var ErrNoData = errors.New("no market data for ticker")

const defaultBaseURL = "https://query1.finance.yahoo.com"

// exchange suffix appended to the plain symbol, Yahoo convention.
var exchangeSuffix = map[string]string{
	"NSE": ".NS",
	"BSE": ".BO",
}

// YahooClient fetches daily OHLCV history from the Yahoo Finance chart API.
type YahooClient struct {
	client   *api.Client
	exchange string
}

// Option configures the Yahoo client.
type Option func(*YahooClient)

// WithBaseURL overrides the API endpoint (tests point this at a fixture server).
func WithBaseURL(base string) Option {
	return func(y *YahooClient) {
		y.client = api.NewClient(api.WithBaseURL(base), api.WithTimeout(20*time.Second))
	}
}

// NewYahooClient creates a client for the given exchange ("NSE" or "BSE").
func NewYahooClient(exchange string, opts ...Option) *YahooClient {
	y := &YahooClient{
		client: api.NewClient(
			api.WithBaseURL(defaultBaseURL),
			api.WithTimeout(20*time.Second),
			api.WithHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"),
		),
		exchange: exchange,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns the full daily series from start through today, ascending
// by date with duplicates collapsed. Rows with a missing close are dropped -
// Yahoo emits JSON nulls for halted sessions.
func (y *YahooClient) History(ctx context.Context, ticker string, start time.Time) ([]types.Candle, error) {
	symbol := strings.ToUpper(ticker) + exchangeSuffix[y.exchange]

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", time.Now().Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")

	resp, err := y.client.GET(ctx, "/v8/finance/chart/"+url.PathEscape(symbol)+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	var cr chartResponse
	if err := json.Unmarshal(resp.Body, &cr); err != nil {
		return nil, fmt.Errorf("decode chart response for %s: %w", ticker, err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s (%s): %w", ticker, cr.Chart.Error.Code, ErrNoData)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("ticker %s: %w", ticker, ErrNoData)
	}

	result := cr.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	seen := make(map[int64]bool, len(result.Timestamp))
	candles := make([]types.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		if seen[day.Unix()] {
			continue
		}
		seen[day.Unix()] = true

		candles = append(candles, types.Candle{
			Date:  day,
			Open:  deref(quote.Open, i),
			High:  deref(quote.High, i),
			Low:   deref(quote.Low, i),
			Close: *quote.Close[i],
			Vol:   deref(quote.Volume, i),
		})
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("ticker %s: %w", ticker, ErrNoData)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })

	logger.Debug(ctx, "Fetched market history", "ticker", ticker, "candles", len(candles))
	return candles, nil
}

func deref(xs []*float64, i int) float64 {
	if i < len(xs) && xs[i] != nil {
		return *xs[i]
	}
	return 0
}
