// internal/jobs/dispatch/alerts.go
package dispatch

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
	"finsync-workers/internal/push"
)

// AlertUserRepo is the slice of the user store the alert flow needs.
type AlertUserRepo interface {
	ListNotifiable(ctx context.Context) ([]models.User, error)
	PortfolioPrices(ctx context.Context, userID string) (map[string]float64, error)
	IncrementBadge(ctx context.Context, userID string) (int, error)
	ClearPushToken(ctx context.Context, token string) (int64, error)
}

// AlertPriceRepo provides the current stored prices.
type AlertPriceRepo interface {
	List(ctx context.Context) (map[string]models.PriceAsset, error)
}

// AlertsJob notifies each user about symbols that moved past the
// threshold since the price the user last saw. Sends within one run are
// spaced by a fixed delay to stay under provider rate limits.
type AlertsJob struct {
	cfg    *AlertsConfig
	users  AlertUserRepo
	prices AlertPriceRepo
	pusher push.Pusher
	logger logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewAlertsJob(cfg *AlertsConfig, users AlertUserRepo, prices AlertPriceRepo, pusher push.Pusher, log logger.Logger) *AlertsJob {
	return &AlertsJob{
		cfg:    cfg,
		users:  users,
		prices: prices,
		pusher: pusher,
		logger: log,
		sleep:  sleepCtx,
	}
}

func (j *AlertsJob) Name() string {
	return "priceAlerts"
}

type alert struct {
	userID string
	token  string
	note   models.Notification
}

func (j *AlertsJob) Run(ctx context.Context) error {
	recipients, err := j.users.ListNotifiable(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	stored, err := j.prices.List(ctx)
	if err != nil {
		return err
	}

	var queue []alert
	for _, user := range recipients {
		portfolio, err := j.users.PortfolioPrices(ctx, user.ID)
		if err != nil {
			j.logger.WithError(err).Warn("failed to load portfolio, skipping user", map[string]interface{}{
				"user_id": user.ID,
			})
			continue
		}

		for _, symbol := range j.symbolsFor(portfolio) {
			asset, ok := stored[symbol]
			if !ok {
				continue
			}

			// Compare against the price the user last saw; unknown
			// symbols fall back to the current price and never alert.
			base, known := portfolio[symbol]
			if !known {
				base = asset.CurrentPrice
			}
			change := models.PercentChange(base, asset.CurrentPrice)
			if math.Abs(change) < j.cfg.ThresholdPercent {
				continue
			}

			queue = append(queue, alert{
				userID: user.ID,
				token:  user.PushToken,
				note:   priceAlertNotification(asset, change),
			})
		}
	}

	if len(queue) == 0 {
		j.logger.Info("no price moves past threshold", nil)
		return nil
	}

	sender := NewSender(j.pusher, j.users, j.logger)
	sent := 0
	for i, a := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}

		// An alert queued behind a token the provider already rejected
		// will never send; leave the badge alone.
		if sender.TokenDead(a.token) {
			continue
		}

		badge, err := j.users.IncrementBadge(ctx, a.userID)
		if err != nil {
			j.logger.WithError(err).Error("failed to increment badge", map[string]interface{}{
				"user_id": a.userID,
			})
			continue
		}
		a.note.Badge = badge

		if sender.Deliver(ctx, a.token, a.note) {
			sent++
		}

		if i < len(queue)-1 {
			if err := j.sleep(ctx, j.cfg.SendDelay); err != nil {
				return err
			}
		}
	}

	j.logger.Info("price alerts dispatched", map[string]interface{}{
		"queued": len(queue),
		"sent":   sent,
	})
	return nil
}

// symbolsFor unions the user's portfolio symbols with the global
// watch-list, deduplicated, in a stable order.
func (j *AlertsJob) symbolsFor(portfolio map[string]float64) []string {
	seen := make(map[string]struct{}, len(portfolio)+len(j.cfg.WatchedSymbols))
	var symbols []string
	for symbol := range portfolio {
		if _, dup := seen[symbol]; !dup {
			seen[symbol] = struct{}{}
			symbols = append(symbols, symbol)
		}
	}
	for _, symbol := range j.cfg.WatchedSymbols {
		if _, dup := seen[symbol]; !dup {
			seen[symbol] = struct{}{}
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

func priceAlertNotification(asset models.PriceAsset, change float64) models.Notification {
	direction := "up"
	if change < 0 {
		direction = "down"
	}

	name := asset.Name
	if name == "" {
		name = asset.Symbol
	}

	return models.Notification{
		ID:       uuid.NewString(),
		Category: models.NotificationPriceChange,
		Title:    fmt.Sprintf("%s is %s %.1f%%", name, direction, math.Abs(change)),
		Body:     fmt.Sprintf("%s is now $%.2f. Tap to review your portfolio.", asset.Symbol, asset.CurrentPrice),
		Data: map[string]string{
			"symbol":        asset.Symbol,
			"percentChange": fmt.Sprintf("%.2f", change),
		},
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
