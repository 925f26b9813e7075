package interfaces

import (
	"context"
	"time"
)

// NewsFetcher returns headlines for a query published within the window
// [reference - windowDays, reference + 1 day]. An empty list is a valid,
// expected result; implementations should degrade to it on failure rather
// than blocking the pipeline.
type NewsFetcher interface {
	Headlines(ctx context.Context, query string, reference time.Time) ([]string, error)
}
