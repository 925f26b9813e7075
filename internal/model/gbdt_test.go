package model

import (
	"math"
	"testing"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// trainingRows builds a learnable dataset: the label follows vol_compression
// with deterministic structure, everything else is mild noise.
func trainingRows(n int) []types.LabeledRow {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]types.LabeledRow, n)
	for i := 0; i < n; i++ {
		cmp := 0.2 + 0.8*float64(i%10)/9 // cycles through [0.2, 1.0]
		label := 0
		if cmp < 0.45 { // compressed volatility precedes expansion
			label = 1
		}
		rows[i] = types.LabeledRow{
			FeatureRow: types.FeatureRow{
				Date:           day.AddDate(0, 0, i),
				LogReturn:      math.Sin(float64(i)) * 0.01,
				VolPast:        0.01 + 0.002*float64(i%7),
				Volume:         1e6 + float64(i%13)*1e4,
				VolPercentile:  float64(i%10) / 10,
				VolCompression: cmp,
				TrendStrength:  math.Cos(float64(i)) * 0.02,
			},
			VolFuture:    0.015,
			VolExpansion: label,
		}
	}
	return rows
}

func smallHyper() HyperParams {
	return HyperParams{Trees: 30, LearningRate: 0.1, MaxDepth: 3, MinChildSamples: 10, Lambda: 1.0}
}

func TestTrainLearnsSeparableSignal(t *testing.T) {
	rows := trainingRows(400)

	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	compressed := features.Vector(types.FeatureRow{
		LogReturn: 0, VolPast: 0.012, Volume: 1e6,
		VolPercentile: 0.3, VolCompression: 0.25, TrendStrength: 0,
	})
	expanded := features.Vector(types.FeatureRow{
		LogReturn: 0, VolPast: 0.012, Volume: 1e6,
		VolPercentile: 0.3, VolCompression: 0.95, TrendStrength: 0,
	})

	pCompressed, err := m.PredictProbability(compressed)
	if err != nil {
		t.Fatalf("PredictProbability failed: %v", err)
	}
	pExpanded, _ := m.PredictProbability(expanded)

	if pCompressed <= pExpanded {
		t.Errorf("Expected compressed-vol row to score higher: %f vs %f", pCompressed, pExpanded)
	}
	if pCompressed < 0.5 {
		t.Errorf("Expected high expansion probability for compressed row, got %f", pCompressed)
	}
}

func TestTrainDeterministic(t *testing.T) {
	rows := trainingRows(300)

	a, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	b, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	x := features.Vector(rows[42].FeatureRow)
	pa, _ := a.PredictProbability(x)
	pb, _ := b.PredictProbability(x)
	if pa != pb {
		t.Errorf("Training is not deterministic: %f vs %f", pa, pb)
	}
}

func TestPredictProbabilityBounds(t *testing.T) {
	rows := trainingRows(300)
	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	for _, r := range rows {
		p, err := m.PredictProbability(features.Vector(r.FeatureRow))
		if err != nil {
			t.Fatalf("PredictProbability failed: %v", err)
		}
		if p < 0 || p > 1 {
			t.Fatalf("Probability out of range: %f", p)
		}
	}
}

func TestPredictProbabilityRejectsBadVector(t *testing.T) {
	rows := trainingRows(300)
	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if _, err := m.PredictProbability([]float64{1, 2, 3}); err == nil {
		t.Error("Expected error for a short feature vector")
	}
}

func TestTrainRejectsDegenerateLabels(t *testing.T) {
	rows := trainingRows(100)
	for i := range rows {
		rows[i].VolExpansion = 0
	}

	if _, err := Train(rows, features.DefaultParams(), smallHyper()); err == nil {
		t.Error("Expected error when all labels are negative")
	}
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	if _, err := Train(nil, features.DefaultParams(), smallHyper()); err == nil {
		t.Error("Expected error for empty training set")
	}
}

func TestFeatureImportanceCoversSignalFeature(t *testing.T) {
	rows := trainingRows(400)
	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	imp := m.FeatureImportance()
	if len(imp) != len(features.Names) {
		t.Fatalf("Expected importance for %d features, got %d", len(features.Names), len(imp))
	}
	if imp["vol_compression"] <= 0 {
		t.Errorf("Expected positive importance for the signal feature, got %f", imp["vol_compression"])
	}
}
