package news

import (
	"testing"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

func TestClassifyMacroShock(t *testing.T) {
	got := Classify("Markets fell sharply as fears of a global recession deepened.")

	want := types.NewsClassification{
		RiskType:           RiskTypeMacro,
		ExogenousShock:     true,
		ContextAlignment:   AlignmentSupportsModel,
		ConfidenceModifier: ModifierIncrease,
	}
	if got != want {
		t.Errorf("Classify() = %+v, want %+v", got, want)
	}
}

func TestClassifyCompanyVetoOverridesMacro(t *testing.T) {
	// Both "recession" and "earnings" present: the company term wins.
	got := Classify("Recession fears grow as the company posted weak earnings this quarter.")

	if got.RiskType != RiskTypeCompany {
		t.Errorf("Expected company classification under veto, got %s", got.RiskType)
	}
	if got.ExogenousShock {
		t.Error("Expected exogenous_shock=false under company veto")
	}
	if got.ConfidenceModifier != ModifierUnchanged {
		t.Errorf("Expected unchanged modifier, got %s", got.ConfidenceModifier)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	got := Classify("ESCALATING TRADE WAR RATTLES GLOBAL MARKETS")

	if got.RiskType != RiskTypeMacro || !got.ExogenousShock {
		t.Errorf("Expected macro shock for upper-case macro terms, got %+v", got)
	}
}

func TestClassifyMarketReactionIsNotMacro(t *testing.T) {
	// Market-wide reaction language without a macro trigger stays company.
	got := Classify("Sensex slumps as stock emerges top loser amid heavy selling pressure.")

	if got.RiskType != RiskTypeCompany {
		t.Errorf("Expected company for pure market-reaction language, got %s", got.RiskType)
	}
	if !MarketReaction("Sensex slumps amid heavy selling pressure.") {
		t.Error("Expected MarketReaction to flag reaction language")
	}
}

func TestClassifyNoTriggers(t *testing.T) {
	got := Classify("The company opened a new office in Pune.")

	want := types.NewsClassification{
		RiskType:           RiskTypeCompany,
		ExogenousShock:     false,
		ContextAlignment:   AlignmentNeutral,
		ConfidenceModifier: ModifierUnchanged,
	}
	if got != want {
		t.Errorf("Classify() = %+v, want %+v", got, want)
	}
}

func TestClassifyEmptySummary(t *testing.T) {
	got := Classify("")

	if got.RiskType != RiskTypeCompany || got.ExogenousShock {
		t.Errorf("Expected neutral company classification for empty text, got %+v", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "Oil price surge amid sanctions and geopolitical tensions."
	first := Classify(text)
	for i := 0; i < 10; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("Classification not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestClassifyOrderIndependent(t *testing.T) {
	a := Classify("war earnings")
	b := Classify("earnings war")

	if a != b {
		t.Errorf("Classification depends on term order: %+v vs %+v", a, b)
	}
	if a.RiskType != RiskTypeCompany {
		t.Errorf("Company veto must hold in both orders, got %s", a.RiskType)
	}
}
