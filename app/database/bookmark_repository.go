package database

import (
	"context"
	"fmt"
)

var _ BookmarkRepository = (*BookmarkSQLRepository)(nil)

type BookmarkSQLRepository struct {
	db *DB
}

func NewBookmarkRepository(db *DB) *BookmarkSQLRepository {
	return &BookmarkSQLRepository{db: db}
}

// Add records the bookmark. Saving the same article twice is a no-op.
func (r *BookmarkSQLRepository) Add(ctx context.Context, userID, articleID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO bookmarks (user_id, article_id)
		VALUES (?, ?)
	`, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	return nil
}

// ListForUser returns the user's saved articles, most recent first.
func (r *BookmarkSQLRepository) ListForUser(ctx context.Context, userID string) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.link, a.title, a.summary, a.source, a.content,
		       a.published_at, a.sentiment, a.category, a.created_at, a.updated_at
		FROM articles a
		JOIN bookmarks b ON b.article_id = a.id
		WHERE b.user_id = ?
		ORDER BY a.published_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}
