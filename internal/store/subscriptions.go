// internal/store/subscriptions.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finsync-workers/internal/models"
)

// SubscriptionStore reconciles entitlement state across the user
// summary row and the subscription detail row. Both rows are always
// written in one transaction so partial application is impossible.
type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// ApplyEntitlement upserts the subscription status, product and
// transaction ids on both rows. An active entitlement also clears any
// billing-issue flag; a cancellation leaves the flag as it stands.
// Re-applying an identical entitlement is a no-op in effect.
func (s *SubscriptionStore) ApplyEntitlement(ctx context.Context, e models.Entitlement) error {
	now := time.Now().UTC()
	clearIssue := e.Status == models.SubscriptionActive

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin entitlement tx: %w", err)
	}

	userQuery := `
		INSERT INTO users (id, subscription_status, product_id, expires_at,
			has_billing_issue, notifications_enabled, badge_count, last_active)
		VALUES ($1, $2, $3, $4, FALSE, TRUE, 0, $5)
		ON CONFLICT (id) DO UPDATE SET
			subscription_status = EXCLUDED.subscription_status,
			product_id = EXCLUDED.product_id,
			expires_at = EXCLUDED.expires_at,
			has_billing_issue = users.has_billing_issue AND NOT $6`

	if _, err := tx.ExecContext(ctx, userQuery,
		e.UserID, e.Status, e.ProductID, e.ExpiresAt, now, clearIssue,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert user summary: %w", err)
	}

	detailQuery := `
		INSERT INTO subscriptions (user_id, status, product_id,
			original_transaction_id, last_transaction_id, expires_at,
			has_billing_issue, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			product_id = EXCLUDED.product_id,
			original_transaction_id = EXCLUDED.original_transaction_id,
			last_transaction_id = EXCLUDED.last_transaction_id,
			expires_at = EXCLUDED.expires_at,
			has_billing_issue = subscriptions.has_billing_issue AND NOT $8,
			last_updated = EXCLUDED.last_updated`

	if _, err := tx.ExecContext(ctx, detailQuery,
		e.UserID, e.Status, e.ProductID,
		e.OriginalTransactionID, e.LastTransactionID, e.ExpiresAt, now, clearIssue,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert subscription detail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entitlement: %w", err)
	}
	return nil
}

// SetBillingIssue flags a billing problem on both rows without touching
// the subscription status fields.
func (s *SubscriptionStore) SetBillingIssue(ctx context.Context, userID string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin billing issue tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET has_billing_issue = TRUE, billing_issue_at = $2 WHERE id = $1`,
		userID, at,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("flag user billing issue: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE subscriptions SET has_billing_issue = TRUE, last_updated = $2 WHERE user_id = $1`,
		userID, at,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("flag subscription billing issue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit billing issue: %w", err)
	}
	return nil
}

// Get returns the subscription detail row, or nil when the user has
// never had one.
func (s *SubscriptionStore) Get(ctx context.Context, userID string) (*models.SubscriptionDetail, error) {
	query := `SELECT user_id, status, product_id, original_transaction_id,
		last_transaction_id, expires_at, has_billing_issue, last_updated
		FROM subscriptions WHERE user_id = $1`

	var d models.SubscriptionDetail
	var expiresAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&d.UserID, &d.Status, &d.ProductID, &d.OriginalTransactionID,
		&d.LastTransactionID, &expiresAt, &d.HasBillingIssue, &d.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		d.ExpiresAt = &t
	}
	return &d, nil
}
