// internal/store/sessions.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"finsync-workers/internal/models"
)

// SessionStore provides access to the append-only sign-in events.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// ListPendingWelcome returns sessions the welcome flow has not handled
// yet, oldest first.
func (s *SessionStore) ListPendingWelcome(ctx context.Context, limit int) ([]models.UserSession, error) {
	query := `SELECT id, user_id, push_token, is_first_session, welcome_sent, created_at
		FROM user_sessions WHERE welcome_sent = FALSE ORDER BY created_at ASC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.UserSession
	for rows.Next() {
		var sess models.UserSession
		var token sql.NullString
		if err := rows.Scan(
			&sess.ID, &sess.UserID, &token, &sess.IsFirstSession,
			&sess.WelcomeSent, &sess.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.PushToken = token.String
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// MarkWelcomeSent flags a session as handled by the welcome flow.
func (s *SessionStore) MarkWelcomeSent(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_sessions SET welcome_sent = TRUE WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("mark welcome sent: %w", err)
	}
	return nil
}
