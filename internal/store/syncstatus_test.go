// internal/store/syncstatus_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/models"
)

func TestSyncStatusStore_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO sync_status .+ON CONFLICT \(job_name\) DO UPDATE SET`).
		WithArgs(models.JobPriceSync, sqlmock.AnyArg(), models.SyncOutcomeSuccess, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewSyncStatusStore(db)
	require.NoError(t, store.Record(context.Background(), models.JobPriceSync, models.SyncOutcomeSuccess, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStatusStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lastRun := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM sync_status WHERE job_name = \$1`).
		WithArgs(models.JobNewsSync).
		WillReturnRows(sqlmock.NewRows([]string{"job_name", "last_run", "outcome", "error_detail"}).
			AddRow(models.JobNewsSync, lastRun, models.SyncOutcomeError, "fetch failed"))

	store := NewSyncStatusStore(db)
	status, err := store.Get(context.Background(), models.JobNewsSync)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.SyncOutcomeError, status.Outcome)
	assert.Equal(t, "fetch failed", status.ErrorDetail)
}

func TestSyncStatusStore_Get_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM sync_status WHERE job_name = \$1`).
		WithArgs("unknownJob").
		WillReturnRows(sqlmock.NewRows([]string{"job_name", "last_run", "outcome", "error_detail"}))

	store := NewSyncStatusStore(db)
	status, err := store.Get(context.Background(), "unknownJob")
	require.NoError(t, err)
	assert.Nil(t, status)
}
