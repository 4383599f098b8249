package models

import "time"

// Job names recorded in sync status.
const (
	JobNewsSync  = "newsSync"
	JobPriceSync = "priceSync"
)

// Sync outcomes.
const (
	SyncOutcomeSuccess = "success"
	SyncOutcomeError   = "error"
)

// SyncStatus is the per-job operational health record, written at the
// end of every run whether it succeeded or failed.
type SyncStatus struct {
	JobName     string    `json:"jobName" db:"job_name"`
	LastRun     time.Time `json:"lastRun" db:"last_run"`
	Outcome     string    `json:"outcome" db:"outcome"`
	ErrorDetail string    `json:"errorDetail,omitempty" db:"error_detail"`
}
