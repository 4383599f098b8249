package models

import "time"

// SubscriptionStatus values stored on the user summary row.
const (
	SubscriptionNone      = "none"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// User represents the per-user summary document. It is created by the
// mobile client on first sign-in and mutated here by the webhook
// processor (subscription fields) and the dispatch engine (badge count,
// token invalidation).
type User struct {
	ID                   string     `json:"id" db:"id"`
	PushToken            string     `json:"pushToken,omitempty" db:"push_token"`
	NotificationsEnabled bool       `json:"notificationsEnabled" db:"notifications_enabled"`
	SubscriptionStatus   string     `json:"subscriptionStatus" db:"subscription_status"`
	HasBillingIssue      bool       `json:"hasBillingIssue" db:"has_billing_issue"`
	BillingIssueAt       *time.Time `json:"billingIssueAt,omitempty" db:"billing_issue_at"`
	ProductID            string     `json:"productId,omitempty" db:"product_id"`
	ExpiresAt            *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	BadgeCount           int        `json:"badgeCount" db:"badge_count"`
	LastActive           time.Time  `json:"lastActive" db:"last_active"`
}

// HasPushToken reports whether the user can currently receive pushes.
func (u *User) HasPushToken() bool {
	return u.PushToken != ""
}

// PortfolioAsset is one row of a user's portfolio, carrying the price
// the user last saw for the symbol.
type PortfolioAsset struct {
	UserID         string  `json:"userId" db:"user_id"`
	Symbol         string  `json:"symbol" db:"symbol"`
	LastKnownPrice float64 `json:"lastKnownPrice" db:"last_known_price"`
}
