package features

import "math"

// Percentile computes, for each index, the percentile rank of the current
// value within the trailing window of the same series, inclusive. Ties use
// average-rank semantics, so the result lies in (0, 1]. NaN until window
// observations exist or when the window contains a NaN.
func Percentile(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = rankPct(xs[i-window+1:i+1], xs[i])
	}
	return out
}

// Compression divides the current value by the maximum over the trailing
// window, inclusive. Values near 1 mean volatility is at its recent peak;
// small values mean it is compressed below the recent range.
func Compression(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		max := math.Inf(-1)
		bad := false
		for _, v := range xs[i-window+1 : i+1] {
			if math.IsNaN(v) {
				bad = true
				break
			}
			if v > max {
				max = v
			}
		}
		if bad || max == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = xs[i] / max
	}
	return out
}

// TrendStrength computes the normalized slope of the window-period moving
// average: (MA[t] - MA[t-window]) / MA[t-window]. This is the single trend
// convention used by both training and inference.
func TrendStrength(closes []float64, window int) []float64 {
	ma := rollingMean(closes, window)
	out := make([]float64, len(closes))
	for i := range out {
		if i < window || math.IsNaN(ma[i]) || math.IsNaN(ma[i-window]) || ma[i-window] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (ma[i] - ma[i-window]) / ma[i-window]
	}
	return out
}

func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		bad := false
		for _, v := range xs[i-window+1 : i+1] {
			if math.IsNaN(v) {
				bad = true
				break
			}
			sum += v
		}
		if bad {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// rankPct is the average-rank percentile of v within window (0,1].
func rankPct(window []float64, v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	less, equal := 0, 0
	for _, w := range window {
		if math.IsNaN(w) {
			return math.NaN()
		}
		switch {
		case w < v:
			less++
		case w == v:
			equal++
		}
	}
	avgRank := float64(less) + (float64(equal)+1)/2
	return avgRank / float64(len(window))
}
