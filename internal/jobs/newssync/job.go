// internal/jobs/newssync/job.go
package newssync

import (
	"context"
	"time"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
	"finsync-workers/internal/providers/newsapi"
)

// NewsProvider fetches raw articles for one provider category.
type NewsProvider interface {
	FetchCategory(ctx context.Context, category string) ([]newsapi.Article, error)
}

// NewsRepo is the slice of the news store the job needs.
type NewsRepo interface {
	UpsertBatch(ctx context.Context, items []models.NewsItem) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Indexer mirrors stored items into the search index. It is strictly
// best-effort: index failures never fail the sync.
type Indexer interface {
	IndexBatch(ctx context.Context, items []models.NewsItem) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

// StatusRepo records the outcome of a completed pass.
type StatusRepo interface {
	Record(ctx context.Context, jobName, outcome, errDetail string) error
}

// Job fetches, classifies and stores news, then prunes anything older
// than the retention window.
type Job struct {
	cfg     *Config
	news    NewsProvider
	store   NewsRepo
	indexer Indexer
	status  StatusRepo
	logger  logger.Logger
	now     func() time.Time
}

// New builds the job. indexer may be nil when search is not configured.
func New(cfg *Config, provider NewsProvider, store NewsRepo, indexer Indexer, status StatusRepo, log logger.Logger) *Job {
	return &Job{
		cfg:     cfg,
		news:    provider,
		store:   store,
		indexer: indexer,
		status:  status,
		logger:  log,
		now:     time.Now,
	}
}

func (j *Job) Name() string {
	return models.JobNewsSync
}

// Run fetches every configured category, keeps the valid fresh items
// and writes them in one batch. A category fetch failure is logged and
// skipped; the prune at the end runs regardless of fetch outcomes.
func (j *Job) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-models.NewsRetention)

	var batch []models.NewsItem
	seen := make(map[string]struct{})
	dropped := 0

	for _, category := range j.cfg.Categories {
		articles, err := j.news.FetchCategory(ctx, category)
		if err != nil {
			j.logger.WithError(err).Warn("news fetch failed for category", map[string]interface{}{
				"category": category,
			})
			continue
		}

		for _, a := range articles {
			item, ok := buildItem(a, cutoff)
			if !ok {
				dropped++
				continue
			}
			// First occurrence of an id wins within the batch.
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			batch = append(batch, item)
		}
	}

	if err := j.store.UpsertBatch(ctx, batch); err != nil {
		j.recordStatus(models.SyncOutcomeError, err.Error())
		return err
	}

	if j.indexer != nil && len(batch) > 0 {
		if err := j.indexer.IndexBatch(ctx, batch); err != nil {
			j.logger.WithError(err).Warn("news search indexing failed", nil)
		}
	}

	pruned, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.recordStatus(models.SyncOutcomeError, err.Error())
		return err
	}
	if j.indexer != nil {
		if err := j.indexer.DeleteOlderThan(ctx, cutoff); err != nil {
			j.logger.WithError(err).Warn("news search prune failed", nil)
		}
	}

	j.logger.Info("news sync pass completed", map[string]interface{}{
		"stored":  len(batch),
		"dropped": dropped,
		"pruned":  pruned,
	})

	j.recordStatus(models.SyncOutcomeSuccess, "")
	return nil
}

// buildItem validates and normalizes a raw article. Items without a
// headline or timestamp are dropped, as is anything already outside the
// retention window. A missing summary falls back to the headline.
func buildItem(a newsapi.Article, cutoff time.Time) (models.NewsItem, bool) {
	if a.Headline == "" || a.PublishedAt == nil {
		return models.NewsItem{}, false
	}
	if a.PublishedAt.Before(cutoff) {
		return models.NewsItem{}, false
	}

	summary := a.Summary
	if summary == "" {
		summary = a.Headline
	}

	source := a.Source
	if source == "" {
		source = "Unknown"
	}

	return models.NewsItem{
		ID:          a.ID,
		Headline:    a.Headline,
		Summary:     summary,
		URL:         a.URL,
		Source:      source,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt.UTC(),
		Category:    Classify(source, a.Headline, a.RawCategory),
	}, true
}

func (j *Job) recordStatus(outcome, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := j.status.Record(ctx, j.Name(), outcome, detail); err != nil {
		j.logger.WithError(err).Error("failed to record news sync status", nil)
	}
}
