package features

import "math"

// Returns computes log returns ln(close[t]/close[t-1]). The first element is
// NaN - there is no prior close to compare against.
func Returns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(out) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(closes[i] / closes[i-1])
	}
	return out
}

// RollingStd computes the trailing sample standard deviation over the last
// window observations, inclusive of the current one. NaN until window
// observations exist; a NaN anywhere in the window propagates.
func RollingStd(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStd(xs[i-window+1 : i+1])
	}
	return out
}

// FutureVol computes the sample standard deviation of returns over the window
// strictly after each index: out[t] = std(returns[t+1 .. t+window]). It looks
// only forward and exists solely to manufacture training labels.
func FutureVol(returns []float64, window int) []float64 {
	out := make([]float64, len(returns))
	for i := range out {
		if i+window >= len(returns) {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStd(returns[i+1 : i+1+window])
	}
	return out
}

// Label returns 1 when future volatility exceeds multiplier times past
// volatility, 0 otherwise, and -1 (undefined) when either input is NaN.
func Label(volPast, volFuture, multiplier float64) int {
	if math.IsNaN(volPast) || math.IsNaN(volFuture) {
		return -1
	}
	if volFuture > multiplier*volPast {
		return 1
	}
	return 0
}

func sampleStd(window []float64) float64 {
	n := len(window)
	if n < 2 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range window {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	mean := sum / float64(n)
	ss := 0.0
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
