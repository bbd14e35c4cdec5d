package database

import (
	"time"
)

// Sentiment vocabulary. Every stored article carries exactly one of these.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// DefaultCategory is assigned when classification is unavailable or
// inconclusive. It is excluded from trending counts.
const DefaultCategory = "Miscellaneous"

// Article is the central persisted entity. Link is the natural key: upserts
// replace every field except the store-assigned ID.
type Article struct {
	ID        string    `json:"id"`
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Published time.Time `json:"published"`
	Sentiment string    `json:"sentiment"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// User is an account record. The password hash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// CategoryCount is one row of the trending aggregation.
type CategoryCount struct {
	Category string `json:"topic"`
	Count    int    `json:"count"`
}
