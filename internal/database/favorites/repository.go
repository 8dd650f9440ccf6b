// Package favorites provides database operations for favorite book management.
//
// # Interface Implementation
//
//	var _ book.FavoriteBookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := favorites.NewRepository(db)
//	err := repo.Upsert(ctx, &entities.FavoriteBook{ID: "OL1W", Title: "Dune"})
//	for snapshot := range repo.Subscribe(ctx) {
//		...
//	}
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookie/internal/entities"
)

// upsertColumns are overwritten when a favorite with the same ID already exists.
// created_at is left alone so list order stays stable.
var upsertColumns = []string{
	"title", "description", "image_url", "languages", "first_publish_year",
	"ratings_average", "ratings_count", "num_pages_median", "num_editions",
	"authors", "updated_at",
}

// Repository handles all favorite book database operations.
type Repository struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Upsert inserts the book or replaces the stored row with the same ID.
func (r *Repository) Upsert(ctx context.Context, book *entities.FavoriteBook) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(book).Error
	if err != nil {
		return fmt.Errorf("upsert favorite %s: %w", book.ID, err)
	}
	r.notify()
	return nil
}

// DeleteByID removes the favorite with the given ID. Deleting a missing ID is not an error.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FavoriteBook{}).Error
	if err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	r.notify()
	return nil
}

// GetByID returns the favorite with the given ID, or nil if there is none.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.FavoriteBook, error) {
	var book entities.FavoriteBook
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get favorite %s: %w", id, err)
	}
	return &book, nil
}

// GetAll returns every favorite in the order they were first saved.
func (r *Repository) GetAll(ctx context.Context) ([]entities.FavoriteBook, error) {
	books := []entities.FavoriteBook{}
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return books, nil
}

// Count returns the number of favorites.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FavoriteBook{}).Count(&count).Error
	return count, err
}

// Subscribe emits the current set of favorites right away and a fresh
// snapshot after every successful write. Writes that happen while the
// consumer is still busy are coalesced into a single snapshot. The channel is
// closed once ctx is done.
func (r *Repository) Subscribe(ctx context.Context) <-chan []entities.FavoriteBook {
	return Snapshots(ctx, r, func(books []entities.FavoriteBook) []entities.FavoriteBook {
		return books
	})
}

// Changes returns a channel that is signalled after every successful write.
// It starts out signalled so the first read triggers an initial query.
// Signals are coalesced, and the channel is closed once ctx is done.
func (r *Repository) Changes(ctx context.Context) <-chan struct{} {
	changed := make(chan struct{}, 1)
	changed <- struct{}{}

	r.mu.Lock()
	r.subscribers[changed] = struct{}{}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.unsubscribe(changed)
		close(changed)
	}()

	return changed
}

// SnapshotSource is a favorites table that reports its writes.
type SnapshotSource interface {
	Changes(ctx context.Context) <-chan struct{}
	GetAll(ctx context.Context) ([]entities.FavoriteBook, error)
}

// Snapshots queries src after every change and emits fn of the result.
// A value is only handed out while no newer write is pending, so the first
// value received after a write returns already reflects that write.
func Snapshots[T any](ctx context.Context, src SnapshotSource, fn func([]entities.FavoriteBook) T) <-chan T {
	out := make(chan T)
	changes := src.Changes(ctx)

	go func() {
		defer close(out)

		for range changes {
			for stale := true; stale; {
				books, err := src.GetAll(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[FAVORITES] snapshot query failed: %v", err)
					break
				}
				value := fn(books)

				select {
				case <-changes:
					continue
				default:
				}

				select {
				case out <- value:
					stale = false
				case _, ok := <-changes:
					if !ok {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (r *Repository) unsubscribe(ch chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, ch)
}

func (r *Repository) notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
