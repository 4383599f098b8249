// internal/jobs/dispatch/config.go
package dispatch

import "time"

// WelcomeConfig bounds the session poll of the welcome flow.
type WelcomeConfig struct {
	BatchSize int
}

// DigestConfig sets the window summarized by the news digest.
type DigestConfig struct {
	Window time.Duration
}

// AlertsConfig drives the portfolio price-alert flow.
type AlertsConfig struct {
	// ThresholdPercent is the absolute percent move that triggers an
	// alert for a symbol.
	ThresholdPercent float64
	// SendDelay spaces consecutive sends of one run.
	SendDelay time.Duration
	// WatchedSymbols are alerted for every user, portfolio or not.
	WatchedSymbols []string
}
