package interfaces

import "context"

// Summarizer turns headlines into a prose summary of possible volatility
// drivers. Implementations must reason only from the provided headlines;
// callers supply the fallback when the list is empty.
type Summarizer interface {
	Summarize(ctx context.Context, ticker, date string, headlines []string) (string, error)
}
