package tasks

import (
	"context"
	"fmt"
	"log"

	"github.com/mikestefanello/backlite"
)

// CoverFetcher downloads a cover into the local cache.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
}

// CacheCoverTask downloads the cover of a freshly favorited book.
type CacheCoverTask struct {
	BookID   string `json:"book_id"`
	CoverURL string `json:"cover_url"`
}

// Config returns the default queue configuration for cover downloads.
// NewCacheCoverQueue overrides it with the configured values.
func (t CacheCoverTask) Config() backlite.QueueConfig {
	defaults := DefaultConfig()
	return backlite.QueueConfig{
		Name:        "cache_cover",
		MaxAttempts: defaults.MaxRetries,
		Backoff:     defaults.RetryDelay,
		Timeout:     defaults.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   defaults.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CacheCoverProcessor creates a processor function for CacheCoverTask.
func CacheCoverProcessor(fetcher CoverFetcher) backlite.QueueProcessor[CacheCoverTask] {
	return func(ctx context.Context, task CacheCoverTask) error {
		if fetcher == nil {
			return fmt.Errorf("cover cache not configured")
		}
		if task.CoverURL == "" {
			return nil
		}

		path, err := fetcher.GetCover(ctx, task.BookID, task.CoverURL)
		if err != nil {
			return fmt.Errorf("cache cover for %s: %w", task.BookID, err)
		}

		log.Printf("[TASK] Cached cover for %s at %s", task.BookID, path)
		return nil
	}
}

// NewCacheCoverQueue creates a backlite queue for cover downloads with the
// retry, timeout and retention settings of cfg.
func NewCacheCoverQueue(fetcher CoverFetcher, cfg Config) backlite.Queue {
	queue := backlite.NewQueue(CacheCoverProcessor(fetcher))
	cfg.applyTo(queue.Config())
	return queue
}

// EnqueueCover schedules a cover download and returns the task id. An empty
// cover URL schedules nothing.
func (c *Client) EnqueueCover(bookID, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}
	ids, err := c.Add(CacheCoverTask{BookID: bookID, CoverURL: coverURL}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue cover task: %w", err)
	}
	return ids[0], nil
}
