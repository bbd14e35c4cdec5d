package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"
)

// Source fetches and parses syndication feeds. Every Fetch re-retrieves the
// feed document; nothing is cached between passes.
type Source struct {
	parser     *gofeed.Parser
	httpClient *http.Client
	userAgent  string
}

func NewSource(httpClient *http.Client, userAgent string) *Source {
	return &Source{
		parser:     gofeed.NewParser(),
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Fetch retrieves the feed at url and returns its title together with the
// qualified entries in feed-reported order. A network or parse failure of
// the feed document fails the whole feed. Entries without a parseable
// published timestamp are dropped; other missing optional fields are
// tolerated.
func (s *Source) Fetch(ctx context.Context, url string) (string, []Entry, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		if item.PublishedParsed == nil {
			slog.Debug("Entry has no published timestamp, dropping", "feed", url, "link", item.Link)
			continue
		}

		entries = append(entries, Entry{
			Link:      item.Link,
			Title:     item.Title,
			Summary:   item.Description,
			Published: *item.PublishedParsed,
		})
	}

	return parsed.Title, entries, nil
}

func (s *Source) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}
