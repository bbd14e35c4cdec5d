package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultSearchLimit = 50

var _ ArticleRepository = (*ArticleSQLRepository)(nil)

// ArticleSQLRepository implements ArticleRepository on SQLite.
type ArticleSQLRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleSQLRepository {
	return &ArticleSQLRepository{db: db}
}

// Upsert inserts the article or, when the link already exists, replaces
// every enrichment and content field while keeping the original id.
func (r *ArticleSQLRepository) Upsert(ctx context.Context, article Article) error {
	if article.Link == "" {
		return fmt.Errorf("article has no link")
	}
	if article.Published.IsZero() {
		return fmt.Errorf("article has no published timestamp")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (
			id, link, title, summary, source, content,
			published_at, sentiment, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			source = excluded.source,
			content = excluded.content,
			published_at = excluded.published_at,
			sentiment = excluded.sentiment,
			category = excluded.category,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, uuid.NewString(), article.Link, article.Title, article.Summary,
		article.Source, article.Content, formatTime(article.Published),
		article.Sentiment, article.Category)

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

func (r *ArticleSQLRepository) GetByID(ctx context.Context, id string) (*Article, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, link, title, summary, source, content,
		       published_at, sentiment, category, created_at, updated_at
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}

	return article, nil
}

func (r *ArticleSQLRepository) GetByLink(ctx context.Context, link string) (*Article, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, link, title, summary, source, content,
		       published_at, sentiment, category, created_at, updated_at
		FROM articles
		WHERE link = ?
	`, link)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by link: %w", err)
	}

	return article, nil
}

// Search returns articles matching the filter, most recent first.
func (r *ArticleSQLRepository) Search(ctx context.Context, filter SearchFilter) ([]Article, error) {
	query := `
		SELECT id, link, title, summary, source, content,
		       published_at, sentiment, category, created_at, updated_at
		FROM articles
		WHERE 1 = 1`
	var args []interface{}

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query += `
		  AND (LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(content) LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}

	if filter.Category != "" {
		query += `
		  AND LOWER(category) LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.Category)+"%")
	}

	if filter.DateFilter != "" {
		if since, ok := windowStart(filter.DateFilter, time.Now()); ok {
			query += `
		  AND published_at >= ?`
			args = append(args, formatTime(since))
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query += `
		ORDER BY published_at DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// Trending returns the most frequent categories, count descending,
// excluding the default catch-all category.
func (r *ArticleSQLRepository) Trending(ctx context.Context, limit int) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM articles
		WHERE category != ?
		GROUP BY category
		ORDER BY cnt DESC
		LIMIT ?
	`, DefaultCategory, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count trending categories: %w", err)
	}
	defer rows.Close()

	counts := make([]CategoryCount, 0, limit)
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trending row: %w", err)
		}
		counts = append(counts, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending rows: %w", err)
	}

	return counts, nil
}

// RecommendationsFor returns articles sharing the given article's category,
// excluding the article itself, most recent first.
func (r *ArticleSQLRepository) RecommendationsFor(ctx context.Context, article Article, limit int) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, link, title, summary, source, content,
		       published_at, sentiment, category, created_at, updated_at
		FROM articles
		WHERE category = ?
		  AND id != ?
		ORDER BY published_at DESC
		LIMIT ?
	`, article.Category, article.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleSQLRepository) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// windowStart resolves a named date window to its inclusive lower bound.
// this_week starts on the most recent Monday at midnight.
func windowStart(name string, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch name {
	case "today":
		return midnight, true
	case "this_week":
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -daysSinceMonday), true
	case "this_month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var published, created, updated string

	err := row.Scan(
		&article.ID, &article.Link, &article.Title, &article.Summary,
		&article.Source, &article.Content, &published,
		&article.Sentiment, &article.Category, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	if article.Published, err = parseTime(published); err != nil {
		return nil, fmt.Errorf("invalid published_at %q: %w", published, err)
	}
	article.CreatedAt, _ = parseTime(created)
	article.UpdatedAt, _ = parseTime(updated)

	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// Timestamps are stored as RFC 3339 UTC strings, which keeps string
// comparison consistent with chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
