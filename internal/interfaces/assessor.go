package interfaces

import (
	"context"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Assessor produces a fresh model-side risk assessment for a ticker.
type Assessor interface {
	Assess(ctx context.Context, ticker string) (types.RiskAssessment, error)
}
