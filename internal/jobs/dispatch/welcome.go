// internal/jobs/dispatch/welcome.go
package dispatch

import (
	"context"

	"github.com/google/uuid"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
	"finsync-workers/internal/push"
)

// SessionRepo is the slice of the session store the welcome flow needs.
type SessionRepo interface {
	ListPendingWelcome(ctx context.Context, limit int) ([]models.UserSession, error)
	MarkWelcomeSent(ctx context.Context, sessionID string) error
}

// WelcomeJob greets new sign-ins: first sessions get a welcome push,
// returning users a welcome-back one. Sessions are marked processed
// whether or not a push went out, so a session is greeted at most once.
type WelcomeJob struct {
	cfg      *WelcomeConfig
	sessions SessionRepo
	pusher   push.Pusher
	users    TokenCleaner
	logger   logger.Logger
}

func NewWelcomeJob(cfg *WelcomeConfig, sessions SessionRepo, pusher push.Pusher, users TokenCleaner, log logger.Logger) *WelcomeJob {
	return &WelcomeJob{
		cfg:      cfg,
		sessions: sessions,
		pusher:   pusher,
		users:    users,
		logger:   log,
	}
}

func (j *WelcomeJob) Name() string {
	return "welcomeDispatch"
}

func (j *WelcomeJob) Run(ctx context.Context) error {
	pending, err := j.sessions.ListPendingWelcome(ctx, j.cfg.BatchSize)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	sender := NewSender(j.pusher, j.users, j.logger)
	sent := 0

	for _, session := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Sessions without a token are still marked, otherwise they
		// would be picked up again forever.
		if session.PushToken != "" {
			if sender.Deliver(ctx, session.PushToken, welcomeNotification(session)) {
				sent++
			}
		}

		if err := j.sessions.MarkWelcomeSent(ctx, session.ID); err != nil {
			j.logger.WithError(err).Error("failed to mark session welcomed", map[string]interface{}{
				"session_id": session.ID,
			})
		}
	}

	j.logger.Info("welcome dispatch completed", map[string]interface{}{
		"sessions": len(pending),
		"sent":     sent,
	})
	return nil
}

func welcomeNotification(session models.UserSession) models.Notification {
	if session.IsFirstSession {
		return models.Notification{
			ID:       uuid.NewString(),
			Category: models.NotificationWelcome,
			Title:    "Welcome!",
			Body:     "Thanks for joining. Track your portfolio and stay on top of the markets.",
		}
	}
	return models.Notification{
		ID:       uuid.NewString(),
		Category: models.NotificationWelcomeBack,
		Title:    "Welcome back!",
		Body:     "Markets moved while you were away. Check what's new.",
	}
}
