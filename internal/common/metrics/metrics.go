// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_job_runs_completed_total",
			Help: "Total number of completed scheduled job runs",
		},
		[]string{"job_name"},
	)

	JobRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_job_runs_failed_total",
			Help: "Total number of failed scheduled job runs",
		},
		[]string{"job_name", "error_code"},
	)

	JobRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "sync_job_run_duration_seconds",
			Help: "Duration of scheduled job runs in seconds",
		},
		[]string{"job_name"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of push notifications sent",
		},
		[]string{"category"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of push notification delivery failures",
		},
		[]string{"category", "error_code"},
	)

	TokensInvalidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_tokens_invalidated_total",
			Help: "Total number of push tokens cleared after terminal delivery errors",
		},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhook_events_total",
			Help: "Total number of billing webhook events by type and result",
		},
		[]string{"event_type", "result"},
	)
)
