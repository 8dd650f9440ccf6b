package book

import (
	"context"
	"log"

	"github.com/mrlokans/bookie/internal/database"
	"github.com/mrlokans/bookie/internal/database/favorites"
	"github.com/mrlokans/bookie/internal/entities"
)

// DefaultSearchLimit is the number of search results requested when none is configured.
const DefaultSearchLimit = 20

// FavoriteAddedHook runs after a book has been saved as favorite.
type FavoriteAddedHook func(ctx context.Context, b Book)

// FavoriteRemovedHook runs after a favorite has been deleted.
type FavoriteRemovedHook func(ctx context.Context, id string)

// DefaultRepository merges the remote catalog with the local favorites store.
// Favorited books win over the remote source for descriptions.
type DefaultRepository struct {
	remote      RemoteBookDataSource
	favorites   FavoriteBookStore
	searchLimit int
	onAdded     []FavoriteAddedHook
	onRemoved   []FavoriteRemovedHook
}

// NewRepository creates a repository. A searchLimit of zero or less uses DefaultSearchLimit.
func NewRepository(remote RemoteBookDataSource, store FavoriteBookStore, searchLimit int) *DefaultRepository {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &DefaultRepository{
		remote:      remote,
		favorites:   store,
		searchLimit: searchLimit,
	}
}

// OnFavoriteAdded registers a hook called after every successful AddFavoriteBook.
// Hooks run in registration order. Register them before the repository is shared.
func (r *DefaultRepository) OnFavoriteAdded(hook FavoriteAddedHook) {
	r.onAdded = append(r.onAdded, hook)
}

// OnFavoriteRemoved registers a hook called after every successful DeleteFavoriteBook.
func (r *DefaultRepository) OnFavoriteRemoved(hook FavoriteRemovedHook) {
	r.onRemoved = append(r.onRemoved, hook)
}

// SearchBooks returns mapped search results, or a *dataerror.Remote.
func (r *DefaultRepository) SearchBooks(ctx context.Context, query string) ([]Book, error) {
	res, err := r.remote.SearchBooks(ctx, query, r.searchLimit)
	if err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(res.Docs))
	for _, doc := range res.Docs {
		books = append(books, FromSearchedBook(doc))
	}
	return books, nil
}

// GetBookDescription returns the stored description of a favorited book
// without touching the network, and falls back to the remote work otherwise.
func (r *DefaultRepository) GetBookDescription(ctx context.Context, id string) (*string, error) {
	local, err := r.favorites.GetByID(ctx, id)
	if err != nil {
		log.Printf("[BOOKS] local lookup for %s failed, falling back to remote: %v", id, err)
	}
	if local != nil {
		return local.Description, nil
	}

	work, err := r.remote.GetBookDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return work.Description, nil
}

// GetFavoriteBooks streams the favorite list, emitting again whenever it changes.
func (r *DefaultRepository) GetFavoriteBooks(ctx context.Context) <-chan []Book {
	return favorites.Snapshots(ctx, r.favorites, func(rows []entities.FavoriteBook) []Book {
		books := make([]Book, 0, len(rows))
		for _, row := range rows {
			books = append(books, FromEntity(row))
		}
		return books
	})
}

// IsBookFavorite streams whether id is currently in the favorite list.
func (r *DefaultRepository) IsBookFavorite(ctx context.Context, id string) <-chan bool {
	return favorites.Snapshots(ctx, r.favorites, func(rows []entities.FavoriteBook) bool {
		for _, row := range rows {
			if row.ID == id {
				return true
			}
		}
		return false
	})
}

// AddFavoriteBook saves b, replacing any favorite with the same ID. Storage
// failures come back as *dataerror.Local.
func (r *DefaultRepository) AddFavoriteBook(ctx context.Context, b Book) error {
	if err := r.favorites.Upsert(ctx, ToEntity(b)); err != nil {
		return database.ToLocalError(err)
	}
	for _, hook := range r.onAdded {
		hook(ctx, b)
	}
	return nil
}

// DeleteFavoriteBook removes id from the favorites. Failures are only logged.
func (r *DefaultRepository) DeleteFavoriteBook(ctx context.Context, id string) {
	if err := r.favorites.DeleteByID(ctx, id); err != nil {
		log.Printf("[BOOKS] delete favorite %s failed: %v", id, err)
		return
	}
	for _, hook := range r.onRemoved {
		hook(ctx, id)
	}
}
