package types

import "time"

// Candle is one daily OHLCV bar. Date is the trading day at midnight UTC.
type Candle struct {
	Date                        time.Time
	Open, High, Low, Close, Vol float64
}

// FeatureRow holds the model features for one trading day. Every field except
// Date is derived exclusively from data at or before Date. NaN marks a value
// for which insufficient history exists.
type FeatureRow struct {
	Date           time.Time
	LogReturn      float64
	VolPast        float64
	Volume         float64
	VolPercentile  float64
	VolCompression float64
	TrendStrength  float64
}

// LabeledRow is a FeatureRow plus the training label. VolFuture is derived
// from data strictly after Date and must never leave the training path.
type LabeledRow struct {
	FeatureRow
	VolFuture    float64
	VolExpansion int
}

// RiskAssessment is the model-side output for one ticker, produced fresh per
// inference call.
type RiskAssessment struct {
	Ticker     string  `json:"ticker"`
	Date       string  `json:"date"`
	RiskScore  float64 `json:"risk_score"`
	RiskBucket string  `json:"risk_bucket"`
}

// Risk buckets.
const (
	BucketLow    = "low"
	BucketMedium = "medium"
	BucketHigh   = "high"
)

// NewsClassification is the qualitative risk read derived from a news summary.
type NewsClassification struct {
	RiskType           string `json:"risk_type"`           // "macro" or "company"
	ExogenousShock     bool   `json:"exogenous_shock"`
	ContextAlignment   string `json:"context_alignment"`   // "supports_model" or "neutral"
	ConfidenceModifier string `json:"confidence_modifier"` // "increase", "unchanged", "decrease"
}

// Final signals emitted by the reconciliation stage.
const (
	SignalHighRiskAvoid   = "high_risk_avoid"
	SignalHighRiskMonitor = "high_risk_monitor"
	SignalMonitor         = "monitor"
	SignalStable          = "stable"
)

// ContextState carries the pipeline state through the agent stages. Stages
// receive it by value and return an updated copy; nothing is shared.
type ContextState struct {
	Ticker             string
	Date               string
	News               []string
	Summary            string
	RiskScore          float64
	RiskBucket         string
	RiskType           string
	ExogenousShock     bool
	ContextAlignment   string
	ConfidenceModifier string
	FinalSignal        string
}

// Report is the stable JSON contract returned by the analyze endpoint.
type Report struct {
	Ticker        string          `json:"ticker"`
	Date          string          `json:"date"`
	Model         ModelSection    `json:"model"`
	Context       ContextSection  `json:"context"`
	FinalDecision DecisionSection `json:"final_decision"`
	Explanation   Explanation     `json:"explanation"`
	Metadata      Metadata        `json:"metadata"`
}

type ModelSection struct {
	RiskScore  float64 `json:"risk_score"`
	RiskBucket string  `json:"risk_bucket"`
}

type ContextSection struct {
	RiskType           string `json:"risk_type"`
	ExogenousShock     bool   `json:"exogenous_shock"`
	Alignment          string `json:"alignment"`
	ConfidenceModifier string `json:"confidence_modifier"`
}

type DecisionSection struct {
	Signal     string `json:"signal"`
	Confidence string `json:"confidence"`
}

type Explanation struct {
	Summary   string `json:"summary"`
	NewsCount int    `json:"news_count"`
}

type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	System      string `json:"system"`
}
