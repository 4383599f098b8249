package models

import "time"

// Billing provider webhook event types. Unknown types are accepted and
// deliberately ignored for forward-compatibility.
const (
	EventInitialPurchase     = "INITIAL_PURCHASE"
	EventRenewal             = "RENEWAL"
	EventNonRenewingPurchase = "NON_RENEWING_PURCHASE"
	EventCancellation        = "CANCELLATION"
	EventUncancellation      = "UNCANCELLATION"
	EventBillingIssue        = "BILLING_ISSUE"
)

// SubscriptionDetail is the per-user subscription detail row. It is
// always written together with the user summary row in one transaction.
type SubscriptionDetail struct {
	UserID                string     `json:"userId" db:"user_id"`
	Status                string     `json:"status" db:"status"`
	ProductID             string     `json:"productId" db:"product_id"`
	OriginalTransactionID string     `json:"originalTransactionId" db:"original_transaction_id"`
	LastTransactionID     string     `json:"lastTransactionId" db:"last_transaction_id"`
	ExpiresAt             *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	HasBillingIssue       bool       `json:"hasBillingIssue" db:"has_billing_issue"`
	LastUpdated           time.Time  `json:"lastUpdated" db:"last_updated"`
}

// Entitlement carries the fields a webhook event reconciles into the
// user summary and subscription detail rows.
type Entitlement struct {
	UserID                string
	Status                string
	ProductID             string
	OriginalTransactionID string
	LastTransactionID     string
	ExpiresAt             *time.Time
}
