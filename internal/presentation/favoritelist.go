package presentation

import (
	"context"

	"github.com/mrlokans/bookie/internal/book"
)

// FavoriteBookListState is what the favorites screen renders.
type FavoriteBookListState struct {
	FavoriteBooks []book.Book `json:"favorite_books"`
	IsLoading     bool        `json:"is_loading"`
}

// FavoriteBookListViewModel mirrors the live favorite list into its state.
type FavoriteBookListViewModel struct {
	state  *State[FavoriteBookListState]
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFavoriteBookListViewModel starts observing the favorites right away.
func NewFavoriteBookListViewModel(repo book.Repository) *FavoriteBookListViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	vm := &FavoriteBookListViewModel{
		state:  NewState(FavoriteBookListState{FavoriteBooks: []book.Book{}, IsLoading: true}),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(vm.done)
		for books := range repo.GetFavoriteBooks(ctx) {
			vm.state.Update(func(s FavoriteBookListState) FavoriteBookListState {
				s.FavoriteBooks = books
				s.IsLoading = false
				return s
			})
		}
	}()

	return vm
}

// State exposes the observable screen state.
func (vm *FavoriteBookListViewModel) State() *State[FavoriteBookListState] {
	return vm.state
}

// Close stops observing the favorites and waits for the observer to exit.
func (vm *FavoriteBookListViewModel) Close() {
	vm.cancel()
	<-vm.done
}
