package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technews/app/database"
	"technews/app/feed"
)

type fakeFetcher struct {
	feeds  map[string][]feed.Entry
	failed map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, []feed.Entry, error) {
	if f.failed[url] {
		return "", nil, errors.New("connection refused")
	}
	return "Fake Feed", f.feeds[url], nil
}

type fakeExtractor struct {
	failing map[string]bool
	calls   int
}

func (f *fakeExtractor) Run(_ context.Context, link string) (string, error) {
	f.calls++
	if f.failing[link] {
		return "", errors.New("content extraction failed")
	}
	return "extracted content for " + link, nil
}

type fakeEnricher struct {
	sentiment string
	category  string
}

func (f *fakeEnricher) Sentiment(_ context.Context, _ string) string {
	return f.sentiment
}

func (f *fakeEnricher) Category(_ context.Context, _, _ string) string {
	return f.category
}

// fakeStore keys articles by link, mirroring the upsert contract.
type fakeStore struct {
	articles map[string]database.Article
	upserts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{articles: make(map[string]database.Article)}
}

func (f *fakeStore) Upsert(_ context.Context, article database.Article) error {
	f.articles[article.Link] = article
	f.upserts++
	return nil
}

func entriesFor(n int) []feed.Entry {
	entries := make([]feed.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, feed.Entry{
			Link:      fmt.Sprintf("https://example.com/article-%d", i),
			Title:     fmt.Sprintf("Article %d", i),
			Summary:   "summary",
			Published: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
		})
	}
	return entries
}

func newTestPipeline(fetcher *fakeFetcher, extractor *fakeExtractor, store *fakeStore,
	sources []feed.SourceConfig, limit int) *Pipeline {
	return NewPipeline(fetcher, extractor,
		&fakeEnricher{sentiment: "neutral", category: "Miscellaneous"},
		store, sources, limit, 0)
}

func TestRun_StoresEnrichedArticles(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(2)}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true}}

	p := NewPipeline(fetcher, &fakeExtractor{},
		&fakeEnricher{sentiment: "positive", category: "AI/ML"},
		store, sources, 5, 0)

	summary := p.Run(context.Background())

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, store.articles, 2)

	stored := store.articles["https://example.com/article-0"]
	assert.Equal(t, "Article 0", stored.Title)
	assert.Equal(t, "Fake Feed", stored.Source)
	assert.Equal(t, "extracted content for https://example.com/article-0", stored.Content)
	assert.Equal(t, "positive", stored.Sentiment)
	assert.Equal(t, "AI/ML", stored.Category)
	assert.False(t, stored.Published.IsZero())
}

func TestRun_EnforcesPerFeedCap(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(10)}}
	extractor := &fakeExtractor{}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true}}

	summary := newTestPipeline(fetcher, extractor, store, sources, 3).Run(context.Background())

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 3, extractor.calls, "entries beyond the cap must not be fetched")
	assert.Len(t, store.articles, 3)
}

func TestRun_PerFeedCapOverride(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(10)}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true, MaxArticles: 7}}

	summary := newTestPipeline(fetcher, &fakeExtractor{}, store, sources, 3).Run(context.Background())

	assert.Equal(t, 7, summary.Processed)
}

func TestRun_EntryFailureIsolated(t *testing.T) {
	entries := entriesFor(3)
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entries}}
	extractor := &fakeExtractor{failing: map[string]bool{entries[1].Link: true}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true}}

	summary := newTestPipeline(fetcher, extractor, store, sources, 5).Run(context.Background())

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, store.articles, entries[0].Link)
	assert.NotContains(t, store.articles, entries[1].Link, "failed entry must not be stored partially")
	assert.Contains(t, store.articles, entries[2].Link)
}

func TestRun_FeedFailureIsolated(t *testing.T) {
	fetcher := &fakeFetcher{
		feeds:  map[string][]feed.Entry{"https://feeds.example.com/b": entriesFor(2)},
		failed: map[string]bool{"https://feeds.example.com/a": true},
	}
	store := newFakeStore()
	sources := []feed.SourceConfig{
		{Name: "a", URL: "https://feeds.example.com/a", Enabled: true},
		{Name: "b", URL: "https://feeds.example.com/b", Enabled: true},
	}

	summary := newTestPipeline(fetcher, &fakeExtractor{}, store, sources, 5).Run(context.Background())

	assert.Equal(t, 1, summary.FeedErrors)
	assert.Equal(t, 2, summary.Processed, "second feed still processed after the first fails")
}

func TestRun_DisabledFeedSkipped(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(2)}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: false}}

	summary := newTestPipeline(fetcher, &fakeExtractor{}, store, sources, 5).Run(context.Background())

	assert.Equal(t, 0, summary.Feeds)
	assert.Empty(t, store.articles)
}

func TestRun_Idempotent(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(4)}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true}}

	p := newTestPipeline(fetcher, &fakeExtractor{}, store, sources, 10)

	first := p.Run(context.Background())
	second := p.Run(context.Background())

	assert.Equal(t, first.Processed, second.Processed)
	assert.Equal(t, 8, store.upserts, "both passes upsert every entry")
	assert.Len(t, store.articles, 4, "re-running an unchanged feed adds no articles")
}

func TestRun_CancelledContextStopsPass(t *testing.T) {
	fetcher := &fakeFetcher{feeds: map[string][]feed.Entry{"https://feeds.example.com/a": entriesFor(5)}}
	store := newFakeStore()
	sources := []feed.SourceConfig{{Name: "a", URL: "https://feeds.example.com/a", Enabled: true}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := newTestPipeline(fetcher, &fakeExtractor{}, store, sources, 5).Run(ctx)

	assert.Equal(t, 0, summary.Processed)
	assert.Empty(t, store.articles)
}
