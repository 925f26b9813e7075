package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
)

var (
	// ErrNotFound means no artifact exists for the ticker. Retraining or a
	// redeploy is required; this is distinct from a schema mismatch.
	ErrNotFound = errors.New("model artifact not found")

	// ErrSchemaMismatch means an artifact exists but was trained against a
	// different feature derivation than this binary implements.
	ErrSchemaMismatch = errors.New("model artifact schema mismatch")
)

// Store persists one immutable trained artifact per ticker as a JSON file.
// Artifacts are replaced wholesale on retrain and never mutated in place.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(ticker string) string {
	return filepath.Join(s.dir, strings.ToUpper(ticker)+".json")
}

// Save writes the artifact atomically (temp file + rename) so concurrent
// loads never observe a partial artifact.
func (s *Store) Save(ticker string, m *Model) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}

	tmp := s.path(ticker) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := os.Rename(tmp, s.path(ticker)); err != nil {
		return fmt.Errorf("publish model artifact: %w", err)
	}
	return nil
}

// Load reads the artifact for a ticker and validates its feature schema
// against the derivation compiled into this binary.
func (s *Store) Load(ticker string) (*Model, error) {
	b, err := os.ReadFile(s.path(ticker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ticker %s: %w", ticker, ErrNotFound)
		}
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact for %s: %w", ticker, err)
	}

	if m.SchemaVersion != features.SchemaVersion || !sameSchema(m.Features, features.Names) {
		return nil, fmt.Errorf("ticker %s: artifact schema %s features %v: %w",
			ticker, m.SchemaVersion, m.Features, ErrSchemaMismatch)
	}
	return &m, nil
}

func sameSchema(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
