// Package extractor reduces an article page to its visible plain text.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrExtraction marks any fetch or parse failure of an article document.
// Callers decide whether to skip the entry; the extractor never hands back
// silently-empty text.
var ErrExtraction = errors.New("content extraction failed")

type Extractor struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

func NewExtractor(httpClient *http.Client, timeout time.Duration, userAgent string) *Extractor {
	return &Extractor{
		httpClient: httpClient,
		timeout:    timeout,
		userAgent:  userAgent,
	}
}

// Run fetches the document at link and collapses the body to visible text
// joined by single spaces.
func (e *Extractor) Run(ctx context.Context, link string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrExtraction, err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", ErrExtraction, link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d %s", ErrExtraction, resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse document: %v", ErrExtraction, err)
	}

	// Script, style and noscript text is not visible content.
	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	text := strings.Join(strings.Fields(body.Text()), " ")
	if text == "" {
		return "", fmt.Errorf("%w: no visible text in document", ErrExtraction)
	}

	return text, nil
}
