// internal/jobs/newssync/config.go
package newssync

// Config names the provider categories fetched each run.
type Config struct {
	Categories []string
}
