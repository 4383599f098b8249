// internal/store/syncstatus.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finsync-workers/internal/models"
)

// SyncStatusStore records per-job run outcomes.
type SyncStatusStore struct {
	db *sql.DB
}

func NewSyncStatusStore(db *sql.DB) *SyncStatusStore {
	return &SyncStatusStore{db: db}
}

// Record upserts the status row for a job. Called at the end of every
// run, success or failure.
func (s *SyncStatusStore) Record(ctx context.Context, jobName, outcome, errDetail string) error {
	query := `
		INSERT INTO sync_status (job_name, last_run, outcome, error_detail)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_name) DO UPDATE SET
			last_run = EXCLUDED.last_run,
			outcome = EXCLUDED.outcome,
			error_detail = EXCLUDED.error_detail`

	_, err := s.db.ExecContext(ctx, query, jobName, time.Now().UTC(), outcome, errDetail)
	if err != nil {
		return fmt.Errorf("record sync status: %w", err)
	}
	return nil
}

// Get returns the status row for a job, or nil when the job has never run.
func (s *SyncStatusStore) Get(ctx context.Context, jobName string) (*models.SyncStatus, error) {
	query := `SELECT job_name, last_run, outcome, error_detail FROM sync_status WHERE job_name = $1`

	var st models.SyncStatus
	var detail sql.NullString
	err := s.db.QueryRowContext(ctx, query, jobName).Scan(
		&st.JobName, &st.LastRun, &st.Outcome, &detail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sync status: %w", err)
	}
	st.ErrorDetail = detail.String
	return &st, nil
}
