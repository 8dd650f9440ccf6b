package book

import (
	"context"

	"github.com/mrlokans/bookie/internal/entities"
	"github.com/mrlokans/bookie/internal/openlibrary"
)

// RemoteBookDataSource is the remote catalog. Implementations return
// *dataerror.Remote for every failure.
type RemoteBookDataSource interface {
	SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
	GetBookDetails(ctx context.Context, workID string) (*openlibrary.BookWork, error)
}

// FavoriteBookStore is the local keyed table of saved books.
type FavoriteBookStore interface {
	Upsert(ctx context.Context, book *entities.FavoriteBook) error
	DeleteByID(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entities.FavoriteBook, error)
	GetAll(ctx context.Context) ([]entities.FavoriteBook, error)
	Changes(ctx context.Context) <-chan struct{}
}

// Repository is the single point of truth the presentation and HTTP layers use.
type Repository interface {
	SearchBooks(ctx context.Context, query string) ([]Book, error)
	GetBookDescription(ctx context.Context, id string) (*string, error)
	GetFavoriteBooks(ctx context.Context) <-chan []Book
	IsBookFavorite(ctx context.Context, id string) <-chan bool
	AddFavoriteBook(ctx context.Context, b Book) error
	DeleteFavoriteBook(ctx context.Context, id string)
}
