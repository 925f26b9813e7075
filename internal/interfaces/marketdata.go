package interfaces

import (
	"context"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// MarketData supplies ordered, duplicate-free daily OHLCV history for a
// ticker from the start date through the present.
type MarketData interface {
	History(ctx context.Context, ticker string, start time.Time) ([]types.Candle, error)
}
