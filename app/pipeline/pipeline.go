// Package pipeline orchestrates one ingestion pass: feed retrieval, content
// extraction, enrichment and idempotent persistence, with failures isolated
// at feed and entry granularity.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"technews/app/database"
	"technews/app/feed"
)

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (title string, entries []feed.Entry, err error)
}

type ContentExtractor interface {
	Run(ctx context.Context, link string) (string, error)
}

type Enricher interface {
	Sentiment(ctx context.Context, text string) string
	Category(ctx context.Context, title, text string) string
}

type ArticleWriter interface {
	Upsert(ctx context.Context, article database.Article) error
}

// Summary reports what one pass did. Failures are counted, never
// propagated: a failed feed or entry is simply absent until the next pass.
type Summary struct {
	Feeds      int
	FeedErrors int
	Processed  int
	Skipped    int
	Duration   time.Duration
}

// Pipeline processes all configured feeds sequentially with a single
// logical worker. The inter-entry pacing delay is an intentional throttle
// on the origin servers and the classification service; do not parallelize
// around it.
type Pipeline struct {
	source    FeedFetcher
	extractor ContentExtractor
	enricher  Enricher
	articles  ArticleWriter
	sources   []feed.SourceConfig
	limit     int
	pacing    time.Duration
}

func NewPipeline(source FeedFetcher, extractor ContentExtractor, enricher Enricher,
	articles ArticleWriter, sources []feed.SourceConfig, limit int, pacing time.Duration) *Pipeline {
	return &Pipeline{
		source:    source,
		extractor: extractor,
		enricher:  enricher,
		articles:  articles,
		sources:   sources,
		limit:     limit,
		pacing:    pacing,
	}
}

// Run executes one complete pass over all enabled feeds in configured
// order. Re-running against unchanged feeds upserts every entry in place,
// producing no duplicates.
func (p *Pipeline) Run(ctx context.Context) Summary {
	start := time.Now()
	var summary Summary

	for _, source := range p.sources {
		if !source.Enabled {
			slog.Debug("Feed disabled, skipping", "feed", source.Name)
			continue
		}

		select {
		case <-ctx.Done():
			summary.Duration = time.Since(start)
			return summary
		default:
		}

		summary.Feeds++
		processed, skipped, err := p.processFeed(ctx, source)
		summary.Processed += processed
		summary.Skipped += skipped
		if err != nil {
			// Feed-level failure: skip this feed, keep the pass going.
			summary.FeedErrors++
			slog.Error("Feed fetch failed, skipping feed", "feed", source.Name, "url", source.URL, "error", err)
		}
	}

	summary.Duration = time.Since(start)
	return summary
}

func (p *Pipeline) processFeed(ctx context.Context, source feed.SourceConfig) (processed, skipped int, err error) {
	feedTitle, entries, err := p.source.Fetch(ctx, source.URL)
	if err != nil {
		return 0, 0, err
	}

	if feedTitle == "" {
		feedTitle = source.Name
	}

	limit := source.MaxArticles
	if limit <= 0 {
		limit = p.limit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return processed, skipped, nil
		default:
		}

		if err := p.processEntry(ctx, feedTitle, entry); err != nil {
			// Entry-level failure: skip this entry only.
			skipped++
			slog.Warn("Entry skipped", "feed", source.Name, "link", entry.Link, "error", err)
		} else {
			processed++
		}

		if i < len(entries)-1 {
			p.pace(ctx)
		}
	}

	slog.Info("Feed processed", "feed", source.Name, "entries", len(entries), "processed", processed, "skipped", skipped)
	return processed, skipped, nil
}

func (p *Pipeline) processEntry(ctx context.Context, feedTitle string, entry feed.Entry) error {
	content, err := p.extractor.Run(ctx, entry.Link)
	if err != nil {
		// No partial records: an entry whose content cannot be extracted
		// is not stored at all.
		return err
	}

	sentiment := p.enricher.Sentiment(ctx, content)
	category := p.enricher.Category(ctx, entry.Title, content)

	article := database.Article{
		Link:      entry.Link,
		Title:     entry.Title,
		Summary:   entry.Summary,
		Source:    feedTitle,
		Content:   content,
		Published: entry.Published,
		Sentiment: sentiment,
		Category:  category,
	}

	return p.articles.Upsert(ctx, article)
}

// pace applies the fixed inter-entry delay, waking early on cancellation.
func (p *Pipeline) pace(ctx context.Context) {
	if p.pacing <= 0 {
		return
	}

	timer := time.NewTimer(p.pacing)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
