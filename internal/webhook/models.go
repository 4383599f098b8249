// internal/webhook/models.go
package webhook

import "time"

// Event is the billing provider's webhook envelope.
type Event struct {
	Type  string    `json:"type"`
	Event EventBody `json:"event"`
}

// EventBody carries the subscription facts of one event. Fields other
// than the subscriber id are optional depending on the event type.
type EventBody struct {
	OriginalTransactionID string     `json:"original_transaction_id"`
	TransactionID         string     `json:"transaction_id"`
	ProductID             string     `json:"product_id"`
	ExpirationAtMs        int64      `json:"expiration_at_ms"`
	Subscriber            Subscriber `json:"subscriber"`
}

// Subscriber identifies the affected user.
type Subscriber struct {
	OriginalAppUserID string `json:"original_app_user_id"`
}

// expiresAt converts the millisecond expiry into a time, nil when the
// provider sent none.
func (b EventBody) expiresAt() *time.Time {
	if b.ExpirationAtMs <= 0 {
		return nil
	}
	t := time.UnixMilli(b.ExpirationAtMs).UTC()
	return &t
}

// response is the uniform webhook reply body.
type response struct {
	Success bool   `json:"success,omitempty"`
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message"`
}
