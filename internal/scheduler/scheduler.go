// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finsync-workers/internal/common/config"
	stderrors "finsync-workers/internal/common/errors"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/common/metrics"
	"finsync-workers/internal/common/observability"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler drives one job on a fixed interval. Each run takes a Redis
// lock first, so overlapping runs across instances collapse to one; a
// failed run is retried within the pass with doubling delays.
type Scheduler struct {
	job        Job
	cfg        config.JobConfig
	locker     *redis.Client
	obs        *observability.Observability
	logger     logger.Logger
	retryDelay time.Duration
}

// New builds a scheduler for one job. locker may be nil when Redis is
// not configured; runs then proceed unlocked.
func New(job Job, cfg config.JobConfig, locker *redis.Client, obs *observability.Observability, log logger.Logger) *Scheduler {
	return &Scheduler{
		job:        job,
		cfg:        cfg,
		locker:     locker,
		obs:        obs,
		logger:     log,
		retryDelay: 2 * time.Second,
	}
}

// Start runs the job once immediately, then on every interval tick
// until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", map[string]interface{}{
		"job_name": s.job.Name(),
		"interval": s.cfg.Interval.String(),
	})

	s.runOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", map[string]interface{}{
				"job_name": s.job.Name(),
			})
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	name := s.job.Name()

	acquired, release := s.acquireLock(ctx, name)
	if !acquired {
		s.logger.Debug("run lock held elsewhere, skipping", map[string]interface{}{
			"job_name": name,
		})
		return
	}
	defer release()

	start := time.Now()
	err := s.runWithRetry(ctx)
	duration := time.Since(start)

	metrics.JobRunDuration.WithLabelValues(name).Observe(duration.Seconds())

	if err != nil {
		metrics.JobRunsFailed.WithLabelValues(name, errorCode(err)).Inc()
		s.obs.RecordRun(ctx, name, "failed")
		s.obs.RecordRunDuration(ctx, name, duration, "failed")
		s.logger.WithError(err).Error("job run failed", map[string]interface{}{
			"job_name": name,
			"duration": duration.String(),
		})
		return
	}

	metrics.JobRunsCompleted.WithLabelValues(name).Inc()
	s.obs.RecordRun(ctx, name, "completed")
	s.obs.RecordRunDuration(ctx, name, duration, "completed")
}

// runWithRetry gives a failing run MaxRetries extra attempts inside the
// run timeout, with doubling delays between attempts. Rate-limit errors
// abort the pass at once; the next tick is the retry.
func (s *Scheduler) runWithRetry(ctx context.Context) error {
	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	delay := s.retryDelay
	var lastErr error

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying job run", map[string]interface{}{
				"job_name": s.job.Name(),
				"attempt":  attempt,
				"delay":    delay.String(),
			})
			select {
			case <-runCtx.Done():
				return runCtx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = s.job.Run(runCtx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("job failed after %d attempts: %w", s.cfg.MaxRetries+1, lastErr)
}

// retryable reports whether a failed run is worth another in-pass
// attempt. Classified errors follow the taxonomy; unclassified ones are
// treated as transient.
func retryable(err error) bool {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		return stderrors.GetRetryCount(stdErr.Code) > 0
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// acquireLock takes the per-job run lock. The lock expires on its own
// after the run timeout so a crashed holder cannot wedge the job.
func (s *Scheduler) acquireLock(ctx context.Context, name string) (bool, func()) {
	if s.locker == nil {
		return true, func() {}
	}

	key := "job:" + name + ":lock"
	ttl := s.cfg.Timeout
	if ttl <= 0 {
		ttl = s.cfg.Interval
	}

	ok, err := s.locker.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		// Lock service trouble must not stall the fleet.
		s.logger.WithError(err).Warn("run lock unavailable, proceeding unlocked", map[string]interface{}{
			"job_name": name,
		})
		return true, func() {}
	}
	if !ok {
		return false, nil
	}

	return true, func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.Del(releaseCtx, key).Err(); err != nil {
			s.logger.WithError(err).Warn("failed to release run lock", map[string]interface{}{
				"job_name": name,
			})
		}
	}
}

func errorCode(err error) string {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN"
}
