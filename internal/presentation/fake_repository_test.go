package presentation

import (
	"context"
	"sync"

	"github.com/mrlokans/bookie/internal/book"
)

// fakeRepository is an in-memory book.Repository. Searches block on gate
// when it is set, which lets tests observe the loading state.
type fakeRepository struct {
	mu           sync.Mutex
	results      map[string][]book.Book
	searchErr    error
	descriptions map[string]string
	addErr       error
	queries      []string
	gate         chan struct{}

	favorites *State[[]book.Book]
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		results:      map[string][]book.Book{},
		descriptions: map[string]string{},
		favorites:    NewState([]book.Book{}),
	}
}

func (f *fakeRepository) SearchBooks(ctx context.Context, query string) ([]book.Book, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate, results, err := f.gate, f.results[query], f.searchErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (f *fakeRepository) searchQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeRepository) GetBookDescription(ctx context.Context, id string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.descriptions[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (f *fakeRepository) GetFavoriteBooks(ctx context.Context) <-chan []book.Book {
	return f.favorites.Watch(ctx)
}

func (f *fakeRepository) IsBookFavorite(ctx context.Context, id string) <-chan bool {
	out := make(chan bool)
	go func() {
		defer close(out)
		for books := range f.favorites.Watch(ctx) {
			found := false
			for _, b := range books {
				if b.ID == id {
					found = true
				}
			}
			select {
			case out <- found:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (f *fakeRepository) AddFavoriteBook(ctx context.Context, b book.Book) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.favorites.Update(func(books []book.Book) []book.Book {
		next := []book.Book{}
		for _, existing := range books {
			if existing.ID != b.ID {
				next = append(next, existing)
			}
		}
		return append(next, b)
	})
	return nil
}

func (f *fakeRepository) DeleteFavoriteBook(ctx context.Context, id string) {
	f.favorites.Update(func(books []book.Book) []book.Book {
		next := []book.Book{}
		for _, existing := range books {
			if existing.ID != id {
				next = append(next, existing)
			}
		}
		return next
	})
}

var _ book.Repository = (*fakeRepository)(nil)

func strPtr(s string) *string { return &s }
