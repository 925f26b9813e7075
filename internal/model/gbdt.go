package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// HyperParams are the boosting settings. They mirror the configuration the
// production models are trained with and are persisted into the artifact.
type HyperParams struct {
	Trees           int     `json:"trees"`
	LearningRate    float64 `json:"learning_rate"`
	MaxDepth        int     `json:"max_depth"`
	MinChildSamples int     `json:"min_child_samples"`
	Lambda          float64 `json:"lambda"`
}

// DefaultHyperParams returns the standard training configuration.
func DefaultHyperParams() HyperParams {
	return HyperParams{
		Trees:           200,
		LearningRate:    0.05,
		MaxDepth:        5,
		MinChildSamples: 50,
		Lambda:          1.0,
	}
}

// Model is a trained gradient-boosted binary classifier. It is immutable
// after training or load, so a single instance is safe for concurrent
// PredictProbability calls without locking.
type Model struct {
	SchemaVersion string             `json:"schema_version"`
	Features      []string           `json:"features"`
	FeatureParams features.Params    `json:"feature_params"`
	Hyper         HyperParams        `json:"hyper_params"`
	BaseScore     float64            `json:"base_score"`
	Trees         [][]Node           `json:"trees"`
	Importance    map[string]float64 `json:"importance"`
}

// Train fits a gradient-boosted classifier on labeled rows using Newton
// boosting with logistic loss. The minority expansion class is reweighted so
// both classes contribute equally. Training is deterministic: no row or
// feature subsampling.
func Train(rows []types.LabeledRow, fp features.Params, hp HyperParams) (*Model, error) {
	if len(rows) == 0 {
		return nil, errors.New("no training rows")
	}

	n := len(rows)
	xs := make([][]float64, n)
	y := make([]float64, n)
	pos := 0
	for i, r := range rows {
		xs[i] = features.Vector(r.FeatureRow)
		if r.VolExpansion == 1 {
			y[i] = 1
			pos++
		}
	}
	if pos == 0 || pos == n {
		return nil, fmt.Errorf("degenerate label distribution: %d positives of %d rows", pos, n)
	}

	// Balanced class weights, sklearn convention.
	wPos := float64(n) / (2 * float64(pos))
	wNeg := float64(n) / (2 * float64(n-pos))
	weights := make([]float64, n)
	for i := range weights {
		if y[i] == 1 {
			weights[i] = wPos
		} else {
			weights[i] = wNeg
		}
	}

	// Base score is the logit of the weighted positive prior; with balanced
	// weights this starts near zero.
	wSum, wySum := 0.0, 0.0
	for i := range weights {
		wSum += weights[i]
		wySum += weights[i] * y[i]
	}
	prior := clamp(wySum/wSum, 1e-6, 1-1e-6)
	base := math.Log(prior / (1 - prior))

	m := &Model{
		SchemaVersion: features.SchemaVersion,
		Features:      append([]string(nil), features.Names...),
		FeatureParams: fp,
		Hyper:         hp,
		BaseScore:     base,
		Importance:    make(map[string]float64, len(features.Names)),
	}

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = base
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	importance := make([]float64, len(features.Names))

	tp := treeParams{
		maxDepth:        hp.MaxDepth,
		minChildSamples: hp.MinChildSamples,
		lambda:          hp.Lambda,
		learningRate:    hp.LearningRate,
	}

	for t := 0; t < hp.Trees; t++ {
		for i := 0; i < n; i++ {
			p := sigmoid(raw[i])
			grad[i] = weights[i] * (p - y[i])
			hess[i] = weights[i] * p * (1 - p)
		}

		tree := buildTree(xs, grad, hess, indices, tp, importance)
		m.Trees = append(m.Trees, tree)

		for i := 0; i < n; i++ {
			raw[i] += predictTree(tree, xs[i])
		}
	}

	for f, name := range features.Names {
		m.Importance[name] = importance[f]
	}
	return m, nil
}

// PredictProbability scores one feature vector, returning the probability of
// volatility expansion in [0, 1]. Deterministic for a fixed artifact.
func (m *Model) PredictProbability(x []float64) (float64, error) {
	if len(x) != len(m.Features) {
		return 0, fmt.Errorf("feature vector length %d does not match schema length %d", len(x), len(m.Features))
	}
	raw := m.BaseScore
	for _, tree := range m.Trees {
		raw += predictTree(tree, x)
	}
	return sigmoid(raw), nil
}

// FeatureImportance returns total split gain per feature, a global view of
// what the ensemble actually uses.
func (m *Model) FeatureImportance() map[string]float64 {
	out := make(map[string]float64, len(m.Importance))
	for k, v := range m.Importance {
		out[k] = v
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
