// internal/push/push.go
package push

import (
	"context"
	"errors"

	"finsync-workers/internal/models"
)

// ErrTokenNotRegistered is the terminal delivery error class: the token
// is gone for good and must be cleaned up, never retried.
var ErrTokenNotRegistered = errors.New("push token no longer registered")

// Pusher is the push-delivery provider interface consumed by dispatch.
type Pusher interface {
	Send(ctx context.Context, token string, note models.Notification) error
}

// NopPusher discards every notification. Used when push delivery is
// disabled in config, so the dispatch flows still run their reads and
// badge bookkeeping without touching a provider.
type NopPusher struct{}

func (NopPusher) Send(ctx context.Context, token string, note models.Notification) error {
	return nil
}
