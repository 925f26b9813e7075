package features

import (
	"math"

	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Params controls the rolling windows of the canonical feature derivation.
// Training and inference must use identical values; the artifact stores them
// alongside the feature schema so drift is detectable.
type Params struct {
	PastWindow    int     // trailing volatility window
	FutureWindow  int     // label-only forward window
	RegimeWindow  int     // percentile / compression / trend window
	VolMultiplier float64 // expansion threshold for the label
}

// DefaultParams mirrors the windows the models are trained with.
func DefaultParams() Params {
	return Params{PastWindow: 20, FutureWindow: 5, RegimeWindow: 20, VolMultiplier: 1.5}
}

// Names is the ordered feature schema. Vector and the model artifact both
// depend on this ordering.
var Names = []string{
	"log_return",
	"vol_past",
	"volume",
	"vol_percentile",
	"vol_compression",
	"trend_strength",
}

// SchemaVersion identifies the feature derivation. Bump when any feature
// definition or the ordering in Names changes.
const SchemaVersion = "v1"

// BuildRows derives the full feature set from raw candles. It is the single
// derivation path shared by training and inference; rows with insufficient
// history carry NaN fields and must be filtered with Complete.
func BuildRows(candles []types.Candle, p Params) []types.FeatureRow {
	closes := make([]float64, len(candles))
	vols := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		vols[i] = c.Vol
	}

	rets := Returns(closes)
	volPast := RollingStd(rets, p.PastWindow)
	volPct := Percentile(volPast, p.RegimeWindow)
	volCmp := Compression(volPast, p.RegimeWindow)
	trend := TrendStrength(closes, p.RegimeWindow)

	rows := make([]types.FeatureRow, len(candles))
	for i := range candles {
		rows[i] = types.FeatureRow{
			Date:           candles[i].Date,
			LogReturn:      rets[i],
			VolPast:        volPast[i],
			Volume:         vols[i],
			VolPercentile:  volPct[i],
			VolCompression: volCmp[i],
			TrendStrength:  trend[i],
		}
	}
	return rows
}

// BuildLabeledRows derives features plus the forward-looking label. Only the
// training path may call this; VolFuture never exists at inference time.
func BuildLabeledRows(candles []types.Candle, p Params) []types.LabeledRow {
	rows := BuildRows(candles, p)

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	volFuture := FutureVol(Returns(closes), p.FutureWindow)

	out := make([]types.LabeledRow, len(rows))
	for i := range rows {
		out[i] = types.LabeledRow{
			FeatureRow:   rows[i],
			VolFuture:    volFuture[i],
			VolExpansion: Label(rows[i].VolPast, volFuture[i], p.VolMultiplier),
		}
	}
	return out
}

// Complete filters out rows with any NaN feature, preserving order.
func Complete(rows []types.FeatureRow) []types.FeatureRow {
	out := make([]types.FeatureRow, 0, len(rows))
	for _, r := range rows {
		if rowComplete(r) {
			out = append(out, r)
		}
	}
	return out
}

// CompleteLabeled filters out rows with any NaN feature or an undefined label.
func CompleteLabeled(rows []types.LabeledRow) []types.LabeledRow {
	out := make([]types.LabeledRow, 0, len(rows))
	for _, r := range rows {
		if rowComplete(r.FeatureRow) && !math.IsNaN(r.VolFuture) && r.VolExpansion >= 0 {
			out = append(out, r)
		}
	}
	return out
}

// Vector flattens a row into the model input, ordered per Names.
func Vector(r types.FeatureRow) []float64 {
	return []float64{
		r.LogReturn,
		r.VolPast,
		r.Volume,
		r.VolPercentile,
		r.VolCompression,
		r.TrendStrength,
	}
}

func rowComplete(r types.FeatureRow) bool {
	for _, v := range Vector(r) {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
