package features

import (
	"math"
	"testing"
)

func TestReturnsFirstRowUndefined(t *testing.T) {
	rets := Returns([]float64{100, 110, 99})

	if !math.IsNaN(rets[0]) {
		t.Errorf("Expected first return to be NaN, got %f", rets[0])
	}

	want := math.Log(110.0 / 100.0)
	if math.Abs(rets[1]-want) > 1e-12 {
		t.Errorf("Expected return %f, got %f", want, rets[1])
	}
}

func TestReturnsNonPositiveClose(t *testing.T) {
	rets := Returns([]float64{100, 0, 50})

	if !math.IsNaN(rets[1]) || !math.IsNaN(rets[2]) {
		t.Error("Expected NaN returns around a non-positive close")
	}
}

func TestRollingStdWarmup(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	std := RollingStd(xs, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(std[i]) {
			t.Errorf("Expected NaN at index %d before window fills, got %f", i, std[i])
		}
	}

	// Sample std of {1,2,3} is 1.
	if math.Abs(std[2]-1.0) > 1e-12 {
		t.Errorf("Expected std 1.0, got %f", std[2])
	}
}

func TestRollingStdPropagatesNaN(t *testing.T) {
	xs := []float64{1, math.NaN(), 3, 4, 5}
	std := RollingStd(xs, 3)

	if !math.IsNaN(std[2]) || !math.IsNaN(std[3]) {
		t.Error("Expected NaN to propagate through windows containing it")
	}
	if math.IsNaN(std[4]) {
		t.Error("Expected valid std once the NaN left the window")
	}
}

func TestFutureVolForwardWindow(t *testing.T) {
	rets := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	fv := FutureVol(rets, 3)

	// fv[0] covers rets[1..3] = {0.2, 0.3, 0.4}, sample std 0.1.
	if math.Abs(fv[0]-0.1) > 1e-12 {
		t.Errorf("Expected future vol 0.1, got %f", fv[0])
	}

	// Last window positions have no full forward window.
	for i := 3; i < len(fv); i++ {
		if !math.IsNaN(fv[i]) {
			t.Errorf("Expected NaN at tail index %d, got %f", i, fv[i])
		}
	}
}

func TestFutureVolNeverUsesPast(t *testing.T) {
	rets := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	base := FutureVol(rets, 3)

	// Perturbing data at or before index t must not change vol_future at t.
	perturbed := append([]float64(nil), rets...)
	perturbed[0] = 99
	perturbed[1] = -99
	got := FutureVol(perturbed, 3)

	for i := 2; i < len(rets); i++ {
		if !sameValue(base[i], got[i]) {
			t.Errorf("vol_future at %d changed after perturbing earlier data: %f vs %f", i, base[i], got[i])
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name               string
		past, future, mult float64
		want               int
	}{
		{"expansion", 0.01, 0.02, 1.5, 1},
		{"no expansion", 0.01, 0.012, 1.5, 0},
		{"exactly at threshold", 0.01, 0.015, 1.5, 0},
		{"past undefined", math.NaN(), 0.02, 1.5, -1},
		{"future undefined", 0.01, math.NaN(), 1.5, -1},
	}
	for _, tt := range tests {
		if got := Label(tt.past, tt.future, tt.mult); got != tt.want {
			t.Errorf("%s: Label(%f, %f, %f) = %d, want %d", tt.name, tt.past, tt.future, tt.mult, got, tt.want)
		}
	}
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
