package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config tunes the workers and the cover download queue. Zero values fall
// back to DefaultConfig.
type Config struct {
	Workers int

	// Attempts per cover download, including the first one
	MaxRetries int
	// Wait before a failed download is tried again
	RetryDelay  time.Duration
	TaskTimeout time.Duration

	// Running tasks are handed to another worker after this long
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration
	// Finished downloads stay visible to GET /api/tasks/:id this long
	RetentionDuration time.Duration
}

// DefaultConfig matches the TASK_* defaults of the application config.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       time.Minute,
		ReleaseAfter:      5 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// applyTo copies the set queue options onto qc.
func (c Config) applyTo(qc *backlite.QueueConfig) {
	if c.MaxRetries > 0 {
		qc.MaxAttempts = c.MaxRetries
	}
	if c.RetryDelay > 0 {
		qc.Backoff = c.RetryDelay
	}
	if c.TaskTimeout > 0 {
		qc.Timeout = c.TaskTimeout
	}
	if c.RetentionDuration > 0 {
		if qc.Retention == nil {
			qc.Retention = &backlite.Retention{}
		} else {
			retention := *qc.Retention
			qc.Retention = &retention
		}
		qc.Retention.Duration = c.RetentionDuration
	}
}
