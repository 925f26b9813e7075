package news

import (
	"strings"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Classification values.
const (
	RiskTypeMacro   = "macro"
	RiskTypeCompany = "company"

	AlignmentSupportsModel = "supports_model"
	AlignmentNeutral       = "neutral"

	ModifierIncrease  = "increase"
	ModifierUnchanged = "unchanged"
	ModifierDecrease  = "decrease"
)

// macroTriggers are strict macro-shock terms. Generic market language is
// deliberately excluded.
var macroTriggers = []string{
	"war", "geopolitical", "military conflict",
	"oil price surge", "crude price spike",
	"interest rate hike", "interest rate cut",
	"inflation spike", "recession",
	"currency crisis",
	"sanctions", "trade war",
}

// marketReactionTerms describe market-wide reactions. They co-occur with
// macro events but never classify as macro on their own.
var marketReactionTerms = []string{
	"sensex", "nifty",
	"top loser", "selling pressure",
	"gap-down", "market drag",
	"dragging the index",
}

// companyTriggers are company and earnings terms. Their presence is a hard
// veto over macro classification, regardless of how many macro terms match.
var companyTriggers = []string{
	"earnings", "profit", "missed",
	"revenue", "results", "q3",
	"guidance", "segment",
	"retail", "jio",
	"oil-to-chemicals",
	"gdr slipped", "ipo",
}

// Classify maps a news summary to a risk classification. It is a total,
// deterministic, order-independent function of keyword presence:
// case-insensitive substring matching, no stemming. Precedence is the veto
// rule, not keyword count: macro only when no company term appears.
func Classify(summary string) types.NewsClassification {
	lower := strings.ToLower(summary)

	macroHit := containsAny(lower, macroTriggers)
	companyHit := containsAny(lower, companyTriggers)

	if macroHit && !companyHit {
		return types.NewsClassification{
			RiskType:           RiskTypeMacro,
			ExogenousShock:     true,
			ContextAlignment:   AlignmentSupportsModel,
			ConfidenceModifier: ModifierIncrease,
		}
	}

	return types.NewsClassification{
		RiskType:           RiskTypeCompany,
		ExogenousShock:     false,
		ContextAlignment:   AlignmentNeutral,
		ConfidenceModifier: ModifierUnchanged,
	}
}

// MarketReaction reports whether the summary carries market-wide reaction
// language. Informational only: it never upgrades a classification to macro.
func MarketReaction(summary string) bool {
	return containsAny(strings.ToLower(summary), marketReactionTerms)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
