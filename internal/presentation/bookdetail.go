package presentation

import (
	"context"
	"sync"

	"github.com/mrlokans/bookie/internal/book"
)

// BookDetailState is what the detail screen renders.
type BookDetailState struct {
	IsLoading    bool       `json:"is_loading"`
	IsFavorite   bool       `json:"is_favorite"`
	Book         *book.Book `json:"book,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// BookDetailViewModel shows one book, loads its description and toggles its
// favorite status.
type BookDetailViewModel struct {
	repo   book.Repository
	bookID string
	state  *State[BookDetailState]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBookDetailViewModel starts observing the favorite status of bookID.
func NewBookDetailViewModel(repo book.Repository, bookID string) *BookDetailViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	vm := &BookDetailViewModel{
		repo:   repo,
		bookID: bookID,
		state:  NewState(BookDetailState{IsLoading: true}),
		ctx:    ctx,
		cancel: cancel,
	}

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		for isFavorite := range repo.IsBookFavorite(ctx, bookID) {
			vm.state.Update(func(s BookDetailState) BookDetailState {
				s.IsFavorite = isFavorite
				return s
			})
		}
	}()

	return vm
}

// BookID is the book this screen was opened for.
func (vm *BookDetailViewModel) BookID() string {
	return vm.bookID
}

// State exposes the observable screen state.
func (vm *BookDetailViewModel) State() *State[BookDetailState] {
	return vm.state
}

// OnSelectedBookChanged shows b and fetches its description in the background.
// The returned channel is closed once the description request has finished.
func (vm *BookDetailViewModel) OnSelectedBookChanged(b book.Book) <-chan struct{} {
	shown := b.WithDescription(b.Description)
	vm.state.Update(func(s BookDetailState) BookDetailState {
		s.Book = &shown
		s.IsLoading = true
		s.ErrorMessage = nil
		return s
	})

	done := make(chan struct{})
	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		defer close(done)

		description, err := vm.repo.GetBookDescription(vm.ctx, b.ID)
		if vm.ctx.Err() != nil {
			return
		}
		vm.state.Update(func(s BookDetailState) BookDetailState {
			s.IsLoading = false
			if err != nil {
				s.ErrorMessage = errorMessagePtr(err)
				return s
			}
			if s.Book != nil && s.Book.ID == b.ID {
				withDescription := s.Book.WithDescription(description)
				s.Book = &withDescription
			}
			return s
		})
	}()
	return done
}

// OnFavoriteClick removes the book from favorites if it is one, and saves it
// otherwise. A storage failure is surfaced in the state and returned.
func (vm *BookDetailViewModel) OnFavoriteClick(ctx context.Context) error {
	current := vm.state.Value()
	if current.Book == nil {
		return nil
	}

	if current.IsFavorite {
		vm.repo.DeleteFavoriteBook(ctx, current.Book.ID)
		return nil
	}

	if err := vm.repo.AddFavoriteBook(ctx, *current.Book); err != nil {
		vm.state.Update(func(s BookDetailState) BookDetailState {
			s.ErrorMessage = errorMessagePtr(err)
			return s
		})
		return err
	}
	return nil
}

// Close stops all background work of the screen.
func (vm *BookDetailViewModel) Close() {
	vm.cancel()
	vm.wg.Wait()
}
