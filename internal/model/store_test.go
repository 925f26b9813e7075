package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
)

func TestStoreRoundTrip(t *testing.T) {
	rows := trainingRows(300)
	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	store := NewStore(t.TempDir())
	if err := store.Save("reliance", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("RELIANCE")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	x := features.Vector(rows[17].FeatureRow)
	want, _ := m.PredictProbability(x)
	got, err := loaded.PredictProbability(x)
	if err != nil {
		t.Fatalf("PredictProbability on loaded model failed: %v", err)
	}
	if want != got {
		t.Errorf("Loaded model diverges from trained model: %f vs %f", got, want)
	}
}

func TestStoreNotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("TCS")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	rows := trainingRows(300)
	m, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	m.SchemaVersion = "v0-legacy"
	store := NewStore(dir)
	if err := store.Save("INFY", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err = store.Load("INFY")
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch, got %v", err)
	}
}

func TestStoreCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "HDFCBANK.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if _, err := store.Load("HDFCBANK"); err == nil {
		t.Error("Expected error for corrupt artifact")
	}
}

func TestStoreSaveReplacesWholesale(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	rows := trainingRows(300)
	first, err := Train(rows, features.DefaultParams(), smallHyper())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := store.Save("ICICIBANK", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second, err := Train(rows, features.DefaultParams(), HyperParams{
		Trees: 5, LearningRate: 0.2, MaxDepth: 2, MinChildSamples: 10, Lambda: 1.0,
	})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := store.Save("ICICIBANK", second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("ICICIBANK")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Trees) != 5 {
		t.Errorf("Expected replaced artifact with 5 trees, got %d", len(loaded.Trees))
	}
}
