package inference

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

type fakeMarket struct {
	candles []types.Candle
	err     error
}

func (f *fakeMarket) History(_ context.Context, _ string, _ time.Time) ([]types.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

func synthCandles(n int) []types.Candle {
	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, n)
	price := 250.0
	for i := 0; i < n; i++ {
		move := math.Sin(float64(i)*0.61)*2.2 + math.Cos(float64(i)*0.17)
		// Periodic volatility bursts so expansion labels exist in training.
		if i%40 < 5 {
			move *= 6
		}
		price *= 1 + move/250
		candles[i] = types.Candle{
			Date:  day.AddDate(0, 0, i),
			Open:  price - 1,
			High:  price + 2,
			Low:   price - 2,
			Close: price,
			Vol:   2_000_000 + float64(i%11)*25_000,
		}
	}
	return candles
}

func trainedStore(t *testing.T, candles []types.Candle) *model.Store {
	t.Helper()

	rows := features.CompleteLabeled(features.BuildLabeledRows(candles, features.DefaultParams()))
	require.NotEmpty(t, rows, "synthetic candles must produce labeled rows")

	m, err := model.Train(rows, features.DefaultParams(), model.HyperParams{
		Trees: 20, LearningRate: 0.1, MaxDepth: 3, MinChildSamples: 5, Lambda: 1.0,
	})
	require.NoError(t, err)

	store := model.NewStore(t.TempDir())
	require.NoError(t, store.Save("RELIANCE", m))
	return store
}

func engineParams() Params {
	return Params{
		Tickers:    []string{"RELIANCE", "TCS"},
		StartDate:  time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		MinHistory: 60,
		Features:   features.DefaultParams(),
		Thresholds: DefaultThresholds(),
	}
}

func TestAssessUnsupportedTicker(t *testing.T) {
	candles := synthCandles(300)
	eng := New(&fakeMarket{candles: candles}, trainedStore(t, candles), engineParams())

	_, err := eng.Assess(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnsupportedTicker)
}

func TestAssessInsufficientHistory(t *testing.T) {
	candles := synthCandles(300)
	store := trainedStore(t, candles)

	eng := New(&fakeMarket{candles: synthCandles(30)}, store, engineParams())

	_, err := eng.Assess(context.Background(), "RELIANCE")
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestAssessModelNotFound(t *testing.T) {
	candles := synthCandles(300)
	eng := New(&fakeMarket{candles: candles}, model.NewStore(t.TempDir()), engineParams())

	_, err := eng.Assess(context.Background(), "RELIANCE")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAssessHappyPath(t *testing.T) {
	candles := synthCandles(300)
	eng := New(&fakeMarket{candles: candles}, trainedStore(t, candles), engineParams())

	got, err := eng.Assess(context.Background(), "reliance")
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE", got.Ticker)
	assert.Equal(t, candles[len(candles)-1].Date.Format("2006-01-02"), got.Date)
	assert.GreaterOrEqual(t, got.RiskScore, 0.0)
	assert.LessOrEqual(t, got.RiskScore, 1.0)
	assert.Equal(t, DefaultThresholds().Bucket(got.RiskScore), got.RiskBucket)
}

func TestAssessIdempotent(t *testing.T) {
	candles := synthCandles(300)
	eng := New(&fakeMarket{candles: candles}, trainedStore(t, candles), engineParams())

	first, err := eng.Assess(context.Background(), "RELIANCE")
	require.NoError(t, err)
	second, err := eng.Assess(context.Background(), "RELIANCE")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical history must yield an identical assessment")
}

func TestThresholdsBucket(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		score float64
		want  string
	}{
		{0.72, types.BucketHigh},
		{0.65, types.BucketHigh},
		{0.64, types.BucketMedium},
		{0.35, types.BucketMedium},
		{0.34, types.BucketLow},
		{0.0, types.BucketLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Bucket(tt.score), "score %.2f", tt.score)
	}
}
