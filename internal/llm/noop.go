package llm

import (
	"context"
	"fmt"
	"strings"
)

// NoopSummarizer is a fallback summarizer used when no LLM provider is
// configured. It produces a plain digest of the headlines so the rest of
// the pipeline still has text to classify.
type NoopSummarizer struct{}

// NewNoopSummarizer returns a new instance that never calls out.
func NewNoopSummarizer() *NoopSummarizer {
	return &NoopSummarizer{}
}

// Summarize implements the Summarizer interface deterministically.
func (s *NoopSummarizer) Summarize(_ context.Context, ticker, date string, headlines []string) (string, error) {
	if len(headlines) == 0 {
		return fmt.Sprintf("No headlines available for %s around %s.", ticker, date), nil
	}
	return fmt.Sprintf("Headline digest for %s around %s: %s", ticker, date, strings.Join(headlines, " | ")), nil
}
