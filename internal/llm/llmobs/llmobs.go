package llmobs

import (
	"context"

	"github.com/Tejas1331/stock-volatility-ai/internal/interfaces"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
)

// observableSummarizer wraps a Summarizer with observability (logging & tracing)
type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

// Compile-time interface check
var _ interfaces.Summarizer = (*observableSummarizer)(nil)

// Wrap wraps a summarizer with observability middleware
func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{
		summarizer: summarizer,
	}
}

// Summarize produces a news summary with observability
func (w *observableSummarizer) Summarize(ctx context.Context, ticker, date string, headlines []string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Summarize")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting news summary",
		"ticker", ticker,
		"date", date,
		"headlines", len(headlines),
	)

	summary, err := w.summarizer.Summarize(ctx, ticker, date, headlines)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get news summary", err,
			"ticker", ticker,
			"date", date,
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "News summary received",
		"ticker", ticker,
		"date", date,
		"summary_chars", len(summary),
	)

	return summary, nil
}
