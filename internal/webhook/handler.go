// internal/webhook/handler.go
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"

	stderrors "finsync-workers/internal/common/errors"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/common/metrics"
	"finsync-workers/internal/models"
)

// SubscriptionRepo applies webhook-driven subscription mutations.
type SubscriptionRepo interface {
	ApplyEntitlement(ctx context.Context, e models.Entitlement) error
	SetBillingIssue(ctx context.Context, userID string, at time.Time) error
}

// Handler processes billing provider webhooks. Every request is
// signature-verified against the shared secret before the body is
// parsed; unknown event types are acknowledged and ignored.
type Handler struct {
	secret string
	subs   SubscriptionRepo
	schema *gojsonschema.Schema
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(secret string, subs SubscriptionRepo, log logger.Logger) (*Handler, error) {
	schema, err := compileEventSchema()
	if err != nil {
		return nil, err
	}
	return &Handler{
		secret: secret,
		subs:   subs,
		schema: schema,
		logger: log,
		now:    time.Now,
	}, nil
}

// Routes mounts the webhook endpoints. chi answers non-POST methods on
// the route with 405.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/billing", h.handleBilling)
	return r
}

func (h *Handler) handleBilling(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.reply(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := VerifySignature(h.secret, body, r.Header.Get("X-Signature")); err != nil {
		if errors.Is(err, ErrMalformedSignature) {
			metrics.WebhookEvents.WithLabelValues("unknown", "malformed_signature").Inc()
			h.reply(w, http.StatusBadRequest, "malformed signature header")
			return
		}
		metrics.WebhookEvents.WithLabelValues("unknown", "signature_mismatch").Inc()
		h.logger.WithError(stderrors.NewWebhookSignatureInvalidError("digest does not match body")).
			Warn("webhook signature mismatch", nil)
		h.reply(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	if err := validateEventBody(h.schema, body); err != nil {
		vErr := stderrors.NewWebhookPayloadInvalidError(err.Error())
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_payload").Inc()
		h.logger.WithError(vErr).Warn("webhook payload failed validation", nil)
		h.reply(w, http.StatusBadRequest, err.Error())
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_payload").Inc()
		h.reply(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	if err := h.process(r.Context(), event); err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "store_error").Inc()
		h.logger.WithError(err).Error("webhook event processing failed", map[string]interface{}{
			"event_type": event.Type,
		})
		h.reply(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	metrics.WebhookEvents.WithLabelValues(event.Type, "ok").Inc()
	h.reply(w, http.StatusOK, "event processed")
}

// process routes an event to its subscription mutation. Event types we
// do not handle are a successful no-op so the provider stops retrying.
func (h *Handler) process(ctx context.Context, event Event) error {
	userID := event.Event.Subscriber.OriginalAppUserID

	switch event.Type {
	case models.EventInitialPurchase, models.EventRenewal,
		models.EventNonRenewingPurchase, models.EventUncancellation:
		return h.subs.ApplyEntitlement(ctx, models.Entitlement{
			UserID:                userID,
			Status:                models.SubscriptionActive,
			ProductID:             event.Event.ProductID,
			OriginalTransactionID: event.Event.OriginalTransactionID,
			LastTransactionID:     event.Event.TransactionID,
			ExpiresAt:             event.Event.expiresAt(),
		})

	case models.EventCancellation:
		return h.subs.ApplyEntitlement(ctx, models.Entitlement{
			UserID:                userID,
			Status:                models.SubscriptionCancelled,
			ProductID:             event.Event.ProductID,
			OriginalTransactionID: event.Event.OriginalTransactionID,
			LastTransactionID:     event.Event.TransactionID,
			ExpiresAt:             event.Event.expiresAt(),
		})

	case models.EventBillingIssue:
		return h.subs.SetBillingIssue(ctx, userID, h.now().UTC())

	default:
		h.logger.Info("ignoring unhandled webhook event type", map[string]interface{}{
			"event_type": event.Type,
		})
		return nil
	}
}

func (h *Handler) reply(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := response{Message: message}
	if status < 300 {
		resp.Success = true
	} else {
		resp.Error = true
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WithError(err).Error("failed to encode webhook response", nil)
	}
}
