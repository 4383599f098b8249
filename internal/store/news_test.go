// internal/store/news_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/models"
)

func storedNewsItem(id string) models.NewsItem {
	return models.NewsItem{
		ID:          id,
		Headline:    "headline " + id,
		Summary:     "summary",
		URL:         "https://news.example.com/" + id,
		Source:      "Reuters",
		PublishedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Category:    models.CategoryStocks,
	}
}

func TestNewsStore_UpsertBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	items := []models.NewsItem{storedNewsItem("n1"), storedNewsItem("n2")}

	mock.ExpectBegin()
	for _, item := range items {
		mock.ExpectExec(`INSERT INTO news_items .+ON CONFLICT \(id\) DO UPDATE SET`).
			WithArgs(item.ID, item.Headline, item.Summary, item.URL,
				item.Source, item.ImageURL, item.PublishedAt, string(item.Category)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	store := NewNewsStore(db)
	require.NoError(t, store.UpsertBatch(context.Background(), items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsStore_UpsertBatch_EmptyIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewNewsStore(db)
	require.NoError(t, store.UpsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsStore_UpsertBatch_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO news_items`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store := NewNewsStore(db)
	err = store.UpsertBatch(context.Background(), []models.NewsItem{storedNewsItem("n1")})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsStore_DeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM news_items WHERE published_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	store := NewNewsStore(db)
	pruned, err := store.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pruned)
}

func TestNewsStore_ListPublishedSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	published := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM news_items WHERE published_at >= \$1 ORDER BY published_at DESC`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "headline", "summary", "url", "source", "image_url", "published_at", "category",
		}).AddRow("n1", "headline n1", "summary", "https://news.example.com/n1", "Reuters", nil, published, "crypto"))

	store := NewNewsStore(db)
	items, err := store.ListPublishedSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.CategoryCrypto, items[0].Category)
	assert.Empty(t, items[0].ImageURL)
}
