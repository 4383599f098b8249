// internal/jobs/dispatch/sender.go
package dispatch

import (
	"context"
	"errors"

	stderrors "finsync-workers/internal/common/errors"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/common/metrics"
	"finsync-workers/internal/models"
	"finsync-workers/internal/push"
)

// TokenCleaner clears an invalidated token everywhere it appears.
type TokenCleaner interface {
	ClearPushToken(ctx context.Context, token string) (int64, error)
}

// Sender delivers one run's notifications. It remembers tokens the
// provider reported as gone so the same run never retries them, and
// fans the cleanup out to every user row holding the token.
//
// A Sender is single-run, single-goroutine state; flows construct a
// fresh one per Run.
type Sender struct {
	pusher    push.Pusher
	users     TokenCleaner
	logger    logger.Logger
	badTokens map[string]struct{}
}

func NewSender(pusher push.Pusher, users TokenCleaner, log logger.Logger) *Sender {
	return &Sender{
		pusher:    pusher,
		users:     users,
		logger:    log,
		badTokens: make(map[string]struct{}),
	}
}

// TokenDead reports whether the provider already rejected this token
// during the run, so callers can skip work tied to a doomed send.
func (s *Sender) TokenDead(token string) bool {
	_, bad := s.badTokens[token]
	return bad
}

// Deliver pushes one notification and reports whether it went out.
// Delivery errors never propagate: a terminal token error triggers
// cleanup, anything else is logged and dropped.
func (s *Sender) Deliver(ctx context.Context, token string, note models.Notification) bool {
	if _, bad := s.badTokens[token]; bad {
		return false
	}

	err := s.pusher.Send(ctx, token, note)
	if err == nil {
		metrics.NotificationsSent.WithLabelValues(note.Category).Inc()
		return true
	}

	if errors.Is(err, push.ErrTokenNotRegistered) {
		s.badTokens[token] = struct{}{}
		s.invalidateToken(ctx, token)
		metrics.NotificationsFailed.WithLabelValues(note.Category, string(stderrors.ErrCodePushTokenInvalid)).Inc()
		return false
	}

	sendErr := stderrors.NewPushSendFailedError(err)
	metrics.NotificationsFailed.WithLabelValues(note.Category, string(sendErr.Code)).Inc()
	s.logger.WithError(sendErr).Warn("push delivery failed", map[string]interface{}{
		"category": note.Category,
	})
	return false
}

func (s *Sender) invalidateToken(ctx context.Context, token string) {
	cleared, err := s.users.ClearPushToken(ctx, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to clear invalidated push token", nil)
		return
	}

	metrics.TokensInvalidated.Inc()
	s.logger.Info("cleared invalidated push token", map[string]interface{}{
		"users_cleared": cleared,
	})
}
