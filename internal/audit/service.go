// Package audit keeps the favorites activity log: which books were saved or
// removed, and what the cover cleanup job did.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookie/internal/database/audit"
	"github.com/mrlokans/bookie/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking). The
// event is timestamped before the call returns.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogFavoriteAdded records a book saved as favorite.
func (s *Service) LogFavoriteAdded(bookID, title string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventFavoriteAdd,
		BookID:      bookID,
		Description: truncate("Added to favorites: "+title, 500),
		Status:      entities.AuditStatusSuccess,
	})
}

// LogFavoriteRemoved records a favorite deletion.
func (s *Service) LogFavoriteRemoved(bookID string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventFavoriteRemove,
		BookID:      bookID,
		Description: "Removed from favorites",
		Status:      entities.AuditStatusSuccess,
	})
}

// LogCoverCleanup records one run of the cover cleanup job.
func (s *Service) LogCoverCleanup(removed int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCoverCleanup,
		Description: fmt.Sprintf("Removed %d cached covers", removed),
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"removed": removed}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events. An empty eventType returns all types.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// GetBookHistory retrieves the events of one book.
func (s *Service) GetBookHistory(ctx context.Context, bookID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsForBook(ctx, bookID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
