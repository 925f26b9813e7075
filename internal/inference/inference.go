package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/interfaces"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

var (
	// ErrUnsupportedTicker means the ticker is outside the allow-list.
	ErrUnsupportedTicker = errors.New("ticker not supported")

	// ErrInsufficientHistory means too few raw observations exist for the
	// rolling windows to produce a single fully-valid row.
	ErrInsufficientHistory = errors.New("insufficient history for inference")

	// ErrMissingFeature means the derived row does not match the artifact's
	// feature schema. This indicates engine/artifact version drift.
	ErrMissingFeature = errors.New("missing required feature")
)

// Thresholds is the single risk-bucketing policy applied across the pipeline.
type Thresholds struct {
	High   float64 // score >= High        -> high
	Medium float64 // Medium <= score < High -> medium, else low
}

// DefaultThresholds returns the production bucketing policy.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.65, Medium: 0.35}
}

// Bucket maps a probability to a risk bucket.
func (t Thresholds) Bucket(score float64) string {
	switch {
	case score >= t.High:
		return types.BucketHigh
	case score >= t.Medium:
		return types.BucketMedium
	default:
		return types.BucketLow
	}
}

// Engine reproduces the training-time feature derivation on live history and
// scores the most recent fully-valid row.
type Engine struct {
	market     interfaces.MarketData
	store      *model.Store
	allowed    map[string]bool
	startDate  time.Time
	minHistory int
	params     features.Params
	thresholds Thresholds

	mu     sync.RWMutex
	models map[string]*model.Model // immutable artifacts, loaded once
}

// Params configures the inference engine.
type Params struct {
	Tickers    []string
	StartDate  time.Time
	MinHistory int
	Features   features.Params
	Thresholds Thresholds
}

func New(market interfaces.MarketData, store *model.Store, p Params) *Engine {
	allowed := make(map[string]bool, len(p.Tickers))
	for _, t := range p.Tickers {
		allowed[strings.ToUpper(t)] = true
	}
	return &Engine{
		market:     market,
		store:      store,
		allowed:    allowed,
		startDate:  p.StartDate,
		minHistory: p.MinHistory,
		params:     p.Features,
		thresholds: p.Thresholds,
		models:     make(map[string]*model.Model),
	}
}

// Assess runs end-to-end inference for a ticker. Features are derived over
// the entire available history - rolling windows need the preceding context -
// then only the single most recent fully-valid row is scored.
func (e *Engine) Assess(ctx context.Context, ticker string) (types.RiskAssessment, error) {
	ticker = strings.ToUpper(ticker)

	if !e.allowed[ticker] {
		return types.RiskAssessment{}, fmt.Errorf("ticker %q: %w", ticker, ErrUnsupportedTicker)
	}

	m, err := e.loadModel(ticker)
	if err != nil {
		return types.RiskAssessment{}, err
	}

	candles, err := e.market.History(ctx, ticker, e.startDate)
	if err != nil {
		return types.RiskAssessment{}, fmt.Errorf("fetch history: %w", err)
	}
	if len(candles) < e.minHistory {
		return types.RiskAssessment{}, fmt.Errorf("ticker %s has %d rows, need %d: %w",
			ticker, len(candles), e.minHistory, ErrInsufficientHistory)
	}

	rows := features.Complete(features.BuildRows(candles, e.params))
	if len(rows) == 0 {
		return types.RiskAssessment{}, fmt.Errorf("ticker %s produced no valid feature rows: %w",
			ticker, ErrInsufficientHistory)
	}

	latest := rows[len(rows)-1]
	vec := features.Vector(latest)

	// Defensive check against schema drift between the derivation and the
	// artifact. Should never fire when both are versioned together.
	if len(vec) != len(m.Features) {
		return types.RiskAssessment{}, fmt.Errorf("derived %d features, artifact expects %d: %w",
			len(vec), len(m.Features), ErrMissingFeature)
	}
	for i, v := range vec {
		if math.IsNaN(v) {
			return types.RiskAssessment{}, fmt.Errorf("feature %s is NaN after completeness filter: %w",
				m.Features[i], ErrMissingFeature)
		}
	}

	score, err := m.PredictProbability(vec)
	if err != nil {
		return types.RiskAssessment{}, fmt.Errorf("score latest row: %w", err)
	}

	assessment := types.RiskAssessment{
		Ticker:     ticker,
		Date:       latest.Date.Format("2006-01-02"),
		RiskScore:  score,
		RiskBucket: e.thresholds.Bucket(score),
	}

	logger.Info(ctx, "Risk assessment produced",
		"ticker", ticker,
		"date", assessment.Date,
		"risk_score", score,
		"risk_bucket", assessment.RiskBucket)
	return assessment, nil
}

// loadModel returns the immutable artifact for a ticker, loading it at most
// once. Concurrent assessments share the loaded artifact without locking its
// prediction path.
func (e *Engine) loadModel(ticker string) (*model.Model, error) {
	e.mu.RLock()
	m, ok := e.models[ticker]
	e.mu.RUnlock()
	if ok {
		return m, nil
	}

	loaded, err := e.store.Load(ticker)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.models[ticker]; ok {
		return existing, nil
	}
	e.models[ticker] = loaded
	return loaded, nil
}
