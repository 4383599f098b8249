// internal/search/news_index.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewsIndexer mirrors persisted news items into an Elasticsearch index
// so the mobile client can run full-text search. Indexing is best
// effort: failures are logged by the caller and never fail a sync run.
type NewsIndexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewNewsIndexer(client *elasticsearch.Client, index string, log logger.Logger) *NewsIndexer {
	return &NewsIndexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"index": index}),
	}
}

// IndexBatch indexes items one by one, keyed by provider id. Returns
// the first indexing error after attempting every item.
func (x *NewsIndexer) IndexBatch(ctx context.Context, items []models.NewsItem) error {
	var firstErr error

	for i := range items {
		item := &items[i]

		body, err := json.Marshal(item)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("marshal news item %s: %w", item.ID, err)
			}
			continue
		}

		res, err := x.client.Index(
			x.index,
			bytes.NewReader(body),
			x.client.Index.WithDocumentID(item.ID),
			x.client.Index.WithContext(ctx),
		)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("index news item %s: %w", item.ID, err)
			}
			continue
		}
		if res.IsError() {
			if firstErr == nil {
				firstErr = fmt.Errorf("index news item %s: %s", item.ID, res.Status())
			}
		}
		res.Body.Close()
	}

	return firstErr
}

// DeleteOlderThan removes indexed items published before the cutoff,
// mirroring the store's retention pruning.
func (x *NewsIndexer) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	query := fmt.Sprintf(
		`{"query":{"range":{"publishedAt":{"lt":%q}}}}`,
		cutoff.UTC().Format(time.RFC3339),
	)

	res, err := x.client.DeleteByQuery(
		[]string{x.index},
		strings.NewReader(query),
		x.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("delete by query: %s", res.Status())
	}
	return nil
}
