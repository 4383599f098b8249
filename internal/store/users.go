// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finsync-workers/internal/models"
)

// UserStore provides access to the per-user summary rows and portfolio.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, push_token, notifications_enabled, subscription_status,
	has_billing_issue, billing_issue_at, product_id, expires_at, badge_count, last_active`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var token, productID sql.NullString
	var billingIssueAt, expiresAt sql.NullTime

	err := row.Scan(
		&u.ID, &token, &u.NotificationsEnabled, &u.SubscriptionStatus,
		&u.HasBillingIssue, &billingIssueAt, &productID, &expiresAt,
		&u.BadgeCount, &u.LastActive,
	)
	if err != nil {
		return nil, err
	}

	u.PushToken = token.String
	u.ProductID = productID.String
	if billingIssueAt.Valid {
		t := billingIssueAt.Time
		u.BillingIssueAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		u.ExpiresAt = &t
	}
	return &u, nil
}

// Get returns one user, or nil when the id is unknown.
func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListNotifiable returns every user with notifications enabled and a
// non-empty push token.
func (s *UserStore) ListNotifiable(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE notifications_enabled = TRUE AND push_token IS NOT NULL AND push_token <> ''`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notifiable users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// IncrementBadge atomically bumps the stored badge count by one and
// returns the new value. The increment runs against the current stored
// value so concurrent runs for the same user cannot lose updates.
func (s *UserStore) IncrementBadge(ctx context.Context, userID string) (int, error) {
	var badge int
	query := `UPDATE users SET badge_count = badge_count + 1 WHERE id = $1 RETURNING badge_count`
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&badge); err != nil {
		return 0, fmt.Errorf("increment badge: %w", err)
	}
	return badge, nil
}

// ClearPushToken clears the given token and disables notifications on
// every user row holding it, in one statement. Returns the number of
// rows touched.
func (s *UserStore) ClearPushToken(ctx context.Context, token string) (int64, error) {
	query := `UPDATE users SET push_token = NULL, notifications_enabled = FALSE WHERE push_token = $1`
	res, err := s.db.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("clear push token: %w", err)
	}
	return res.RowsAffected()
}

// PortfolioPrices returns the user's portfolio symbols mapped to the
// price the user last saw for each.
func (s *UserStore) PortfolioPrices(ctx context.Context, userID string) (map[string]float64, error) {
	query := `SELECT symbol, last_known_price FROM portfolio_assets WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var price float64
		if err := rows.Scan(&symbol, &price); err != nil {
			return nil, fmt.Errorf("scan portfolio row: %w", err)
		}
		prices[symbol] = price
	}
	return prices, rows.Err()
}
