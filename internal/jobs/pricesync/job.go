// internal/jobs/pricesync/job.go
package pricesync

import (
	"context"
	"time"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
	"finsync-workers/internal/providers/marketdata"
)

// QuoteProvider fetches the current quote for a watched symbol.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol, assetClass string) (*marketdata.Quote, error)
}

// PriceRepo is the slice of the price store the job needs.
type PriceRepo interface {
	Get(ctx context.Context, symbol string) (*models.PriceAsset, error)
	Upsert(ctx context.Context, asset *models.PriceAsset) error
}

// StatusRepo records the outcome of a completed pass.
type StatusRepo interface {
	Record(ctx context.Context, jobName, outcome, errDetail string) error
}

// Job refreshes stored prices for every symbol on the watch-list.
type Job struct {
	cfg      *Config
	provider QuoteProvider
	prices   PriceRepo
	status   StatusRepo
	logger   logger.Logger
	now      func() time.Time
}

func New(cfg *Config, provider QuoteProvider, prices PriceRepo, status StatusRepo, log logger.Logger) *Job {
	return &Job{
		cfg:      cfg,
		provider: provider,
		prices:   prices,
		status:   status,
		logger:   log,
		now:      time.Now,
	}
}

func (j *Job) Name() string {
	return models.JobPriceSync
}

// Run walks the watch-list and refreshes each symbol. A failure on one
// symbol is logged and counted but never aborts the rest of the pass;
// only a cancelled context stops the loop early.
func (j *Job) Run(ctx context.Context) error {
	type entry struct {
		symbol string
		class  string
	}

	var watchlist []entry
	for _, s := range j.cfg.WatchedCrypto {
		watchlist = append(watchlist, entry{symbol: s, class: models.AssetClassCrypto})
	}
	for _, s := range j.cfg.WatchedStocks {
		watchlist = append(watchlist, entry{symbol: s, class: models.AssetClassStock})
	}

	failed := 0
	for _, e := range watchlist {
		if err := ctx.Err(); err != nil {
			j.recordStatus(models.SyncOutcomeError, err.Error())
			return err
		}
		if err := j.syncSymbol(ctx, e.symbol, e.class); err != nil {
			failed++
			j.logger.WithError(err).Warn("price sync failed for symbol", map[string]interface{}{
				"symbol":      e.symbol,
				"asset_class": e.class,
			})
		}
	}

	j.logger.Info("price sync pass completed", map[string]interface{}{
		"symbols": len(watchlist),
		"failed":  failed,
	})

	j.recordStatus(models.SyncOutcomeSuccess, "")
	return nil
}

func (j *Job) syncSymbol(ctx context.Context, symbol, assetClass string) error {
	quote, err := j.provider.Quote(ctx, symbol, assetClass)
	if err != nil {
		return err
	}

	stored, err := j.prices.Get(ctx, symbol)
	if err != nil {
		return err
	}

	// First sight of a symbol: previous equals current, so the
	// computed change is ~0% rather than a spurious jump from zero.
	previous := quote.Price
	name := quote.Name
	if stored != nil {
		previous = stored.CurrentPrice
		if name == "" {
			name = stored.Name
		}
	}

	change := models.PercentChange(previous, quote.Price)
	if quote.PercentChange24h != nil {
		change = *quote.PercentChange24h
	}

	return j.prices.Upsert(ctx, &models.PriceAsset{
		Symbol:           symbol,
		Name:             name,
		AssetClass:       assetClass,
		CurrentPrice:     quote.Price,
		PreviousPrice:    previous,
		PercentChange24h: change,
		LastUpdated:      j.now().UTC(),
	})
}

func (j *Job) recordStatus(outcome, detail string) {
	// Status writes use a short detached context so a cancelled run
	// can still leave its trace behind.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := j.status.Record(ctx, j.Name(), outcome, detail); err != nil {
		j.logger.WithError(err).Error("failed to record price sync status", nil)
	}
}
