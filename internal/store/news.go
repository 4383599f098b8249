// internal/store/news.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finsync-workers/internal/models"
)

// NewsStore provides access to the persisted news items.
type NewsStore struct {
	db *sql.DB
}

func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

// UpsertBatch writes a batch of items keyed by provider id in one
// transaction, so re-fetching the same article overwrites rather than
// duplicates.
func (s *NewsStore) UpsertBatch(ctx context.Context, items []models.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin news batch: %w", err)
	}

	query := `
		INSERT INTO news_items (
			id, headline, summary, url, source, image_url, published_at, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			headline = EXCLUDED.headline,
			summary = EXCLUDED.summary,
			url = EXCLUDED.url,
			source = EXCLUDED.source,
			image_url = EXCLUDED.image_url,
			published_at = EXCLUDED.published_at,
			category = EXCLUDED.category`

	for i := range items {
		item := &items[i]
		if _, err := tx.ExecContext(ctx, query,
			item.ID, item.Headline, item.Summary, item.URL,
			item.Source, item.ImageURL, item.PublishedAt, string(item.Category),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert news item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit news batch: %w", err)
	}
	return nil
}

// DeleteOlderThan prunes items published before the cutoff and returns
// how many were removed.
func (s *NewsStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM news_items WHERE published_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune news items: %w", err)
	}
	return res.RowsAffected()
}

// ListPublishedSince returns items published at or after the given time,
// newest first.
func (s *NewsStore) ListPublishedSince(ctx context.Context, since time.Time) ([]models.NewsItem, error) {
	query := `SELECT id, headline, summary, url, source, image_url, published_at, category
		FROM news_items WHERE published_at >= $1 ORDER BY published_at DESC`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list news items: %w", err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var item models.NewsItem
		var imageURL sql.NullString
		var category string
		if err := rows.Scan(
			&item.ID, &item.Headline, &item.Summary, &item.URL,
			&item.Source, &imageURL, &item.PublishedAt, &category,
		); err != nil {
			return nil, fmt.Errorf("scan news item: %w", err)
		}
		item.ImageURL = imageURL.String
		item.Category = models.NewsCategory(category)
		items = append(items, item)
	}
	return items, rows.Err()
}
