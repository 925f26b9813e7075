package agent

import (
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// SystemTag identifies the producing system in report metadata.
const SystemTag = "stock_volatility_ai_v1"

// BuildReport converts a fully-populated ContextState into the stable
// report contract. Confidence is "low" only when the modifier says to
// decrease it.
func BuildReport(state types.ContextState) types.Report {
	confidence := "high"
	if state.ConfidenceModifier == "decrease" {
		confidence = "low"
	}

	return types.Report{
		Ticker: state.Ticker,
		Date:   state.Date,
		Model: types.ModelSection{
			RiskScore:  state.RiskScore,
			RiskBucket: state.RiskBucket,
		},
		Context: types.ContextSection{
			RiskType:           state.RiskType,
			ExogenousShock:     state.ExogenousShock,
			Alignment:          state.ContextAlignment,
			ConfidenceModifier: state.ConfidenceModifier,
		},
		FinalDecision: types.DecisionSection{
			Signal:     state.FinalSignal,
			Confidence: confidence,
		},
		Explanation: types.Explanation{
			Summary:   state.Summary,
			NewsCount: len(state.News),
		},
		Metadata: types.Metadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			System:      SystemTag,
		},
	}
}
