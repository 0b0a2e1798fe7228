package ingestion_engine

import (
	"time"
)

// IngestConfig tunes one ingestion run.
//
// EmbedTimeout: bound on a single embedding call; a timeout is treated the
// same as a per-chunk embedding failure (skip, continue).
// FetchTimeout: bound on the source fetch; a timeout here is fatal for the
// whole run.
// QueueSize:    capacity of the in-memory job queue.
// StaleAfter:   a processing document whose status record has not been
// touched for this long is treated as an abandoned run and may be
// restarted.
type IngestConfig struct {
	EmbedTimeout time.Duration
	FetchTimeout time.Duration
	QueueSize    int
	StaleAfter   time.Duration
}

// DefaultConfig returns the standard run tuning.
func DefaultConfig() *IngestConfig {
	return &IngestConfig{
		EmbedTimeout: 30 * time.Second,
		FetchTimeout: 2 * time.Minute,
		QueueSize:    64,
		StaleAfter:   10 * time.Minute,
	}
}

func (c *IngestConfig) staleAfter() time.Duration {
	if c.StaleAfter > 0 {
		return c.StaleAfter
	}
	return 10 * time.Minute
}
