package database

import (
	"context"
)

// SearchFilter composes the read-side article predicates. Zero values mean
// "no constraint" for that dimension.
type SearchFilter struct {
	Query      string // case-insensitive substring over title/summary/content
	Category   string // case-insensitive substring match on category
	DateFilter string // named window: "today", "this_week", "this_month"
	Limit      int    // 0 means the default of 50
}

type ArticleRepository interface {
	Upsert(ctx context.Context, article Article) error
	GetByID(ctx context.Context, id string) (*Article, error)
	Search(ctx context.Context, filter SearchFilter) ([]Article, error)
	Trending(ctx context.Context, limit int) ([]CategoryCount, error)
	RecommendationsFor(ctx context.Context, article Article, limit int) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type BookmarkRepository interface {
	Add(ctx context.Context, userID, articleID string) error
	ListForUser(ctx context.Context, userID string) ([]Article, error)
}
