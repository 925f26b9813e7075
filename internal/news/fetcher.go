package news

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
)

const defaultFeedURL = "https://news.google.com/rss/search"

// Fetcher retrieves Google News RSS headlines published strictly around a
// reference date. Failures degrade to an empty list at the pipeline level;
// the fetcher itself reports them so callers can log the degradation.
type Fetcher struct {
	feedURL    string
	windowDays int
	maxItems   int
	timeout    time.Duration
}

// FetcherOption configures the fetcher.
type FetcherOption func(*Fetcher)

// WithFeedURL overrides the RSS endpoint (tests point this at a fixture server).
func WithFeedURL(u string) FetcherOption {
	return func(f *Fetcher) { f.feedURL = u }
}

// NewFetcher creates a fetcher with the given window and item cap.
func NewFetcher(windowDays, maxItems int, timeout time.Duration, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		feedURL:    defaultFeedURL,
		windowDays: windowDays,
		maxItems:   maxItems,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Headlines returns up to maxItems titles published within
// [reference - windowDays, reference + 1 day], in feed order.
func (f *Fetcher) Headlines(ctx context.Context, query string, reference time.Time) ([]string, error) {
	start := reference.AddDate(0, 0, -f.windowDays)
	end := reference.AddDate(0, 0, 1)

	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	})

	var (
		mu        sync.Mutex
		headlines []string
	)
	c.OnXML("//item", func(e *colly.XMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if len(headlines) >= f.maxItems {
			return
		}

		published, ok := parsePubDate(e.ChildText("pubDate"))
		if !ok {
			return
		}
		if published.Before(start) || published.After(end) {
			return
		}

		if title := e.ChildText("title"); title != "" {
			headlines = append(headlines, title)
		}
	})

	feedQuery := url.Values{}
	feedQuery.Set("q", query)
	if err := c.Visit(f.feedURL + "?" + feedQuery.Encode()); err != nil {
		return nil, err
	}
	c.Wait()

	logger.Debug(ctx, "Fetched news headlines",
		"query", query,
		"reference", reference.Format("2006-01-02"),
		"headlines", len(headlines))
	return headlines, nil
}

func parsePubDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC822, time.RFC822Z} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
