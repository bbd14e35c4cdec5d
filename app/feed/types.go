package feed

import (
	"time"
)

// Entry is one raw feed item before enrichment. Only entries with a
// parseable published timestamp are produced.
type Entry struct {
	Link      string
	Title     string
	Summary   string
	Published time.Time
}

// SourceConfig describes one syndication feed, loaded from a YAML file in
// the feeds directory. Name defaults to the filename without extension.
type SourceConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Enabled     bool   `yaml:"enabled"`
	MaxArticles int    `yaml:"max_articles"` // 0 means the global per-feed cap
}
