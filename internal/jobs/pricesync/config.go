// internal/jobs/pricesync/config.go
package pricesync

// Config holds the watch-list the job refreshes every run.
type Config struct {
	WatchedCrypto []string
	WatchedStocks []string
}
