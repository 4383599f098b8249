// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/common/config"
	stderrors "finsync-workers/internal/common/errors"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/common/observability"
)

// ==========================
// Mock Implementations
// ==========================

type fakeJob struct {
	name    string
	runFunc func(ctx context.Context) error
	runs    int
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	if j.runFunc != nil {
		return j.runFunc(ctx)
	}
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func jobConfig() config.JobConfig {
	return config.JobConfig{
		Enabled:    true,
		Interval:   time.Minute,
		Timeout:    10 * time.Second,
		MaxRetries: 2,
	}
}

func newTestScheduler(t *testing.T, job Job, rdb *redis.Client) *Scheduler {
	t.Helper()
	s := New(job, jobConfig(), rdb, &observability.Observability{}, logger.NewTestLogger(t))
	s.retryDelay = time.Millisecond
	return s
}

// ==========================
// Core Functionality Tests
// ==========================

func TestScheduler_RunOnce_Success(t *testing.T) {
	job := &fakeJob{name: "testJob"}
	s := newTestScheduler(t, job, newTestRedis(t))

	s.runOnce(context.Background())
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_RunOnce_SkipsWhenLockHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, rdb.Set(context.Background(), "job:testJob:lock", "1", time.Minute).Err())

	job := &fakeJob{name: "testJob"}
	s := newTestScheduler(t, job, rdb)

	s.runOnce(context.Background())
	assert.Equal(t, 0, job.runs)
}

func TestScheduler_RunOnce_ReleasesLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	job := &fakeJob{name: "testJob"}
	s := newTestScheduler(t, job, rdb)

	s.runOnce(context.Background())
	s.runOnce(context.Background())

	// The lock from the first run was released, so the second ran too.
	assert.Equal(t, 2, job.runs)
	assert.False(t, mr.Exists("job:testJob:lock"))
}

func TestScheduler_RunOnce_NilLockerRunsUnlocked(t *testing.T) {
	job := &fakeJob{name: "testJob"}
	s := New(job, jobConfig(), nil, &observability.Observability{}, logger.NewTestLogger(t))

	s.runOnce(context.Background())
	assert.Equal(t, 1, job.runs)
}

// ==========================
// Retry Behavior Tests
// ==========================

func TestScheduler_RetriesTransientFailure(t *testing.T) {
	job := &fakeJob{name: "flaky"}
	job.runFunc = func(ctx context.Context) error {
		if job.runs < 3 {
			return errors.New("transient")
		}
		return nil
	}

	s := newTestScheduler(t, job, nil)
	require.NoError(t, s.runWithRetry(context.Background()))
	assert.Equal(t, 3, job.runs)
}

func TestScheduler_ExhaustsRetries(t *testing.T) {
	job := &fakeJob{name: "broken", runFunc: func(ctx context.Context) error {
		return errors.New("still broken")
	}}

	s := newTestScheduler(t, job, nil)
	err := s.runWithRetry(context.Background())

	require.Error(t, err)
	// Initial attempt plus MaxRetries
	assert.Equal(t, 3, job.runs)
}

func TestScheduler_RateLimitAbortsWithoutRetry(t *testing.T) {
	job := &fakeJob{name: "limited", runFunc: func(ctx context.Context) error {
		return stderrors.NewProviderRateLimitedError("marketdata")
	}}

	s := newTestScheduler(t, job, nil)
	err := s.runWithRetry(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_StartStopsOnCancel(t *testing.T) {
	job := &fakeJob{name: "testJob"}
	s := newTestScheduler(t, job, newTestRedis(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	// The immediate first run fires before the first tick.
	assert.Eventually(t, func() bool { return job.runs >= 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
