package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// FavoriteGetter provides point lookups of stored favorites.
type FavoriteGetter interface {
	GetByID(ctx context.Context, id string) (*entities.FavoriteBook, error)
}

// CoverFetcher returns a local path for a cover, downloading it if needed.
// Allows tells whether a cover URL may be fetched or redirected to.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
	Allows(coverURL string) bool
}

// SelectionStore keeps the book selected in the current session.
type SelectionStore interface {
	SelectBook(ctx context.Context, b book.Book)
	SelectedBook(ctx context.Context) *book.Book
	ClearSelection(ctx context.Context)
}

// TaskStatusReader reports background task progress.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ActivityReader lists the favorites activity log.
type ActivityReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetBookHistory(ctx context.Context, bookID string, limit, offset int) ([]entities.AuditEvent, int64, error)
}
