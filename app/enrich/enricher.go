// Package enrich derives sentiment and topical category for an article via
// an external text-classification capability, degrading to defaults on any
// failure.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"technews/app/database"
)

// Categories is the fixed topical vocabulary offered to the classifier.
// Anything the classifier returns outside of it maps to the default.
var Categories = []string{"AI/ML", "Startups", "Cybersecurity", "Mobile", "Web3"}

var sentiments = []string{
	database.SentimentPositive,
	database.SentimentNegative,
	database.SentimentNeutral,
}

// Only the head of the extracted text is sent for categorization to bound
// the payload size.
const categoryExcerptLen = 500

// Completer is the text-classification capability: one prompt in, one
// free-text completion out.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

type Enricher struct {
	llm Completer
}

func NewEnricher(llm Completer) *Enricher {
	return &Enricher{llm: llm}
}

// Sentiment classifies text as positive, negative or neutral. Transport
// errors, timeouts and off-vocabulary responses all yield neutral; this
// method never fails.
func (e *Enricher) Sentiment(ctx context.Context, text string) string {
	if !e.llm.Enabled() {
		return database.SentimentNeutral
	}

	prompt := fmt.Sprintf("Analyze the sentiment of the following text as either 'positive', 'negative', or 'neutral'. Respond with only the word.\n\nText: %s", text)

	response, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Sentiment classification failed, using default", "error", err)
		return database.SentimentNeutral
	}

	normalized := strings.ToLower(strings.Trim(strings.TrimSpace(response), `."'`))
	for _, s := range sentiments {
		if normalized == s {
			return s
		}
	}

	return database.SentimentNeutral
}

// Category assigns one of the fixed categories. The first vocabulary entry
// found as a case-insensitive substring of the response wins; no match or
// any error yields Miscellaneous. This method never fails.
func (e *Enricher) Category(ctx context.Context, title, text string) string {
	if !e.llm.Enabled() {
		return database.DefaultCategory
	}

	prompt := fmt.Sprintf("Categorize the following tech article into one of these categories: %s. Respond with only the category name.\n\nTitle: %s\nContent: %s",
		strings.Join(Categories, ", "), title, excerpt(text, categoryExcerptLen))

	response, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Category classification failed, using default", "error", err)
		return database.DefaultCategory
	}

	lowered := strings.ToLower(response)
	for _, category := range Categories {
		if strings.Contains(lowered, strings.ToLower(category)) {
			return category
		}
	}

	return database.DefaultCategory
}

func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
