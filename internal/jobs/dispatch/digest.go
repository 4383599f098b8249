// internal/jobs/dispatch/digest.go
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
	"finsync-workers/internal/push"
)

// DigestNewsRepo lists the stored items a digest summarizes.
type DigestNewsRepo interface {
	ListPublishedSince(ctx context.Context, since time.Time) ([]models.NewsItem, error)
}

// DigestUserRepo lists the recipients of a digest.
type DigestUserRepo interface {
	ListNotifiable(ctx context.Context) ([]models.User, error)
	ClearPushToken(ctx context.Context, token string) (int64, error)
}

// DigestJob sends every notifiable user one summary of the news stored
// during the window. When the window produced nothing, nothing is sent.
type DigestJob struct {
	cfg    *DigestConfig
	news   DigestNewsRepo
	users  DigestUserRepo
	pusher push.Pusher
	logger logger.Logger
	now    func() time.Time
}

func NewDigestJob(cfg *DigestConfig, news DigestNewsRepo, users DigestUserRepo, pusher push.Pusher, log logger.Logger) *DigestJob {
	return &DigestJob{
		cfg:    cfg,
		news:   news,
		users:  users,
		pusher: pusher,
		logger: log,
		now:    time.Now,
	}
}

func (j *DigestJob) Name() string {
	return "newsDigest"
}

func (j *DigestJob) Run(ctx context.Context) error {
	since := j.now().UTC().Add(-j.cfg.Window)
	items, err := j.news.ListPublishedSince(ctx, since)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		j.logger.Info("no news in digest window, skipping", nil)
		return nil
	}

	stocks, crypto := 0, 0
	for _, item := range items {
		switch item.Category {
		case models.CategoryCrypto:
			crypto++
		default:
			stocks++
		}
	}

	note := models.Notification{
		ID:       uuid.NewString(),
		Category: models.NotificationNewsDigest,
		Title:    "Your market news digest",
		Body:     digestBody(stocks, crypto),
		Data: map[string]string{
			"stocksCount": fmt.Sprintf("%d", stocks),
			"cryptoCount": fmt.Sprintf("%d", crypto),
		},
	}

	recipients, err := j.users.ListNotifiable(ctx)
	if err != nil {
		return err
	}

	sender := NewSender(j.pusher, j.users, j.logger)
	sent := 0
	for _, user := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sender.Deliver(ctx, user.PushToken, note) {
			sent++
		}
	}

	j.logger.Info("news digest dispatched", map[string]interface{}{
		"items":      len(items),
		"recipients": len(recipients),
		"sent":       sent,
	})
	return nil
}

func digestBody(stocks, crypto int) string {
	switch {
	case stocks > 0 && crypto > 0:
		return fmt.Sprintf("%s and %s for you to catch up on.",
			countPhrase(stocks, "market story", "market stories"),
			countPhrase(crypto, "crypto story", "crypto stories"))
	case crypto > 0:
		return fmt.Sprintf("%s for you to catch up on.", countPhrase(crypto, "crypto story", "crypto stories"))
	default:
		return fmt.Sprintf("%s for you to catch up on.", countPhrase(stocks, "market story", "market stories"))
	}
}

func countPhrase(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
