// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookie/internal/entities"
)

// CoverPruner removes cached covers for books outside keep.
type CoverPruner interface {
	Prune(keep map[string]struct{}) (int, error)
}

// FavoriteLister returns every stored favorite.
type FavoriteLister interface {
	GetAll(ctx context.Context) ([]entities.FavoriteBook, error)
}

// CleanupReporter is told the outcome of every scheduled cleanup run.
type CleanupReporter interface {
	LogCoverCleanup(removed int, err error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks that schedule is a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// CoverCleanupScheduler periodically drops cached covers of books that are
// no longer favorites.
type CoverCleanupScheduler struct {
	covers    CoverPruner
	favorites FavoriteLister
	schedule  string
	reporter  CleanupReporter

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewCoverCleanupScheduler creates a new scheduler instance
func NewCoverCleanupScheduler(covers CoverPruner, favorites FavoriteLister, schedule string) *CoverCleanupScheduler {
	return &CoverCleanupScheduler{
		covers:    covers,
		favorites: favorites,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// SetReporter registers r to receive the result of scheduled runs. Call it before Start.
func (s *CoverCleanupScheduler) SetReporter(r CleanupReporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reporter = r
}

// Start registers the cleanup job and starts the cron loop. The scheduler
// stops on its own when ctx is done.
func (s *CoverCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	reporter := s.reporter
	entryID, err := s.cron.AddFunc(s.schedule, func() {
		removed, err := s.RunNow(ctx)
		if err != nil {
			log.Printf("[SCHEDULER] Cover cleanup failed: %v", err)
		}
		if reporter != nil {
			reporter.LogCoverCleanup(removed, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cover cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("[SCHEDULER] Cover cleanup started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *CoverCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("[SCHEDULER] Cover cleanup stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CoverCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur
func (s *CoverCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow prunes the cover cache against the current favorites and returns
// the number of removed files.
func (s *CoverCleanupScheduler) RunNow(ctx context.Context) (int, error) {
	start := time.Now()

	favorites, err := s.favorites.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list favorites: %w", err)
	}

	keep := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		keep[f.ID] = struct{}{}
	}

	removed, err := s.covers.Prune(keep)
	if err != nil {
		return removed, fmt.Errorf("prune covers: %w", err)
	}

	log.Printf("[SCHEDULER] Cover cleanup removed %d files in %v", removed, time.Since(start).Round(time.Millisecond))
	return removed, nil
}
