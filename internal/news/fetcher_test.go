package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func rssFixture(items []rssItem) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Search results</title>`)
	for _, it := range items {
		fmt.Fprintf(&sb, "<item><title>%s</title><pubDate>%s</pubDate></item>", it.title, it.pubDate)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

type rssItem struct {
	title   string
	pubDate string
}

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func pubDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123)
}

func TestHeadlinesWindowFilter(t *testing.T) {
	ref := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	srv := rssServer(t, rssFixture([]rssItem{
		{"Inside the window", pubDate(ref.AddDate(0, 0, -1))},
		{"Too old", pubDate(ref.AddDate(0, 0, -10))},
		{"Day after reference still counts", pubDate(ref.AddDate(0, 0, 1))},
		{"Too far in the future", pubDate(ref.AddDate(0, 0, 5))},
	}))

	f := NewFetcher(3, 10, 5*time.Second, WithFeedURL(srv.URL))
	got, err := f.Headlines(context.Background(), "RELIANCE", ref)
	if err != nil {
		t.Fatalf("Headlines failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 headlines inside the window, got %d: %v", len(got), got)
	}
	if got[0] != "Inside the window" || got[1] != "Day after reference still counts" {
		t.Errorf("Unexpected headlines: %v", got)
	}
}

func TestHeadlinesMaxItems(t *testing.T) {
	ref := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	items := make([]rssItem, 20)
	for i := range items {
		items[i] = rssItem{fmt.Sprintf("Headline %d", i), pubDate(ref)}
	}
	srv := rssServer(t, rssFixture(items))

	f := NewFetcher(3, 5, 5*time.Second, WithFeedURL(srv.URL))
	got, err := f.Headlines(context.Background(), "TCS", ref)
	if err != nil {
		t.Fatalf("Headlines failed: %v", err)
	}

	if len(got) != 5 {
		t.Errorf("Expected max 5 headlines, got %d", len(got))
	}
}

func TestHeadlinesSkipsUnparseableDates(t *testing.T) {
	ref := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	srv := rssServer(t, rssFixture([]rssItem{
		{"Good date", pubDate(ref)},
		{"Bad date", "sometime last week"},
	}))

	f := NewFetcher(3, 10, 5*time.Second, WithFeedURL(srv.URL))
	got, err := f.Headlines(context.Background(), "INFY", ref)
	if err != nil {
		t.Fatalf("Headlines failed: %v", err)
	}

	if len(got) != 1 || got[0] != "Good date" {
		t.Errorf("Expected only the dated headline, got %v", got)
	}
}

func TestHeadlinesEmptyFeed(t *testing.T) {
	srv := rssServer(t, rssFixture(nil))

	f := NewFetcher(3, 10, 5*time.Second, WithFeedURL(srv.URL))
	got, err := f.Headlines(context.Background(), "HDFCBANK", time.Now())
	if err != nil {
		t.Fatalf("Headlines failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Expected empty result for empty feed, got %v", got)
	}
}

func TestHeadlinesServerDown(t *testing.T) {
	srv := rssServer(t, "")
	url := srv.URL
	srv.Close()

	f := NewFetcher(3, 10, 2*time.Second, WithFeedURL(url))
	_, err := f.Headlines(context.Background(), "RELIANCE", time.Now())
	if err == nil {
		t.Error("Expected error when the feed endpoint is unreachable")
	}
}
