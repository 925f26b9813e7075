package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/dataset"
	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/interfaces"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Trainer runs the full offline batch that produces one model artifact per
// ticker, replacing any prior artifact wholesale.
type Trainer struct {
	market     interfaces.MarketData
	store      *model.Store
	startDate  time.Time
	minHistory int
	params     features.Params
	hyper      model.HyperParams
	trainRatio float64
	valRatio   float64
}

type Params struct {
	StartDate  time.Time
	MinHistory int
	Features   features.Params
	Hyper      model.HyperParams
	TrainRatio float64
	ValRatio   float64
}

func New(market interfaces.MarketData, store *model.Store, p Params) *Trainer {
	return &Trainer{
		market:     market,
		store:      store,
		startDate:  p.StartDate,
		minHistory: p.MinHistory,
		params:     p.Features,
		hyper:      p.Hyper,
		trainRatio: p.TrainRatio,
		valRatio:   p.ValRatio,
	}
}

// RunAll trains every ticker, continuing past per-ticker failures so one bad
// symbol does not abort the batch. It returns the first error encountered.
func (t *Trainer) RunAll(ctx context.Context, tickers []string) error {
	var firstErr error
	for _, ticker := range tickers {
		if err := t.Run(ctx, ticker); err != nil {
			logger.ErrorWithErr(ctx, "Training failed", err, "ticker", ticker)
			if firstErr == nil {
				firstErr = fmt.Errorf("train %s: %w", ticker, err)
			}
		}
	}
	return firstErr
}

// Run trains and persists the artifact for a single ticker.
func (t *Trainer) Run(ctx context.Context, ticker string) error {
	ctx, span := trace.StartSpan(ctx, "trainer.Run")
	defer span.End()

	timer := logger.StartOperation(ctx, "train_model", "ticker", ticker)
	ctx = timer.GetContext()

	candles, err := t.market.History(ctx, ticker, t.startDate)
	if err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("fetch history: %w", err)
	}
	if len(candles) < t.minHistory {
		err := fmt.Errorf("only %d raw rows, need %d", len(candles), t.minHistory)
		timer.EndWithError(err)
		return err
	}

	labeled := features.CompleteLabeled(features.BuildLabeledRows(candles, t.params))
	if len(labeled) == 0 {
		err := fmt.Errorf("no complete labeled rows for %s", ticker)
		timer.EndWithError(err)
		return err
	}

	part, err := dataset.Split(labeled, t.trainRatio, t.valRatio)
	if err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("split dataset: %w", err)
	}
	if err := part.Verify(len(labeled)); err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("verify split: %w", err)
	}
	part.LogDistributions(ctx)

	m, err := model.Train(part.Train, t.params, t.hyper)
	if err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("train model: %w", err)
	}

	valAcc := holdoutAccuracy(m, part.Val)
	testAcc := holdoutAccuracy(m, part.Test)
	logger.Info(ctx, "Holdout evaluation",
		"ticker", ticker,
		"val_accuracy", valAcc,
		"test_accuracy", testAcc,
	)
	for name, importance := range m.FeatureImportance() {
		logger.Debug(ctx, "Feature importance", "ticker", ticker, "feature", name, "gain", importance)
	}

	if err := t.store.Save(ticker, m); err != nil {
		timer.EndWithError(err)
		return fmt.Errorf("persist artifact: %w", err)
	}

	timer.End()
	return nil
}

// holdoutAccuracy scores a partition at the 0.5 decision point. It is a
// coarse sanity metric for the training log, not a model-selection criterion.
func holdoutAccuracy(m *model.Model, rows []types.LabeledRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	correct := 0
	for _, r := range rows {
		p, err := m.PredictProbability(features.Vector(r.FeatureRow))
		if err != nil {
			continue
		}
		predicted := 0
		if p >= 0.5 {
			predicted = 1
		}
		if predicted == r.VolExpansion {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}
