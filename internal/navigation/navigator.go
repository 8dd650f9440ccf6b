package navigation

import (
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/presentation"
)

// Screen is one entry of the back stack. Exactly one of the view model
// fields is set, matching Route.
type Screen struct {
	Route     Route
	List      *presentation.BookListViewModel
	Favorites *presentation.FavoriteBookListViewModel
	Detail    *presentation.BookDetailViewModel
}

func (s *Screen) close() {
	switch {
	case s.List != nil:
		s.List.Close()
	case s.Favorites != nil:
		s.Favorites.Close()
	case s.Detail != nil:
		s.Detail.Close()
	}
}

// Navigator keeps the back stack of the book graph. The graph starts on
// BookList and owns one SelectedBookViewModel shared by all of its screens.
type Navigator struct {
	repo     book.Repository
	shared   *presentation.SelectedBookViewModel
	debounce time.Duration

	mu    sync.Mutex
	stack []*Screen
}

// NewNavigator opens the book graph on its start destination.
func NewNavigator(repo book.Repository, debounce time.Duration) *Navigator {
	n := &Navigator{
		repo:     repo,
		shared:   presentation.NewSelectedBookViewModel(),
		debounce: debounce,
	}
	n.Navigate(BookList)
	return n
}

// Shared is the selection scoped to the book graph.
func (n *Navigator) Shared() *presentation.SelectedBookViewModel {
	return n.shared
}

// Current returns the screen on top of the back stack.
func (n *Navigator) Current() *Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return nil
	}
	return n.stack[len(n.stack)-1]
}

// Depth is the number of screens on the back stack.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Navigate pushes a new screen for route. BookGraph itself is not a
// destination and maps to its start screen.
func (n *Navigator) Navigate(route Route) *Screen {
	if route == BookGraph {
		route = BookList
	}

	screen := &Screen{Route: route}
	switch r := route.(type) {
	case BookDetail:
		screen.Detail = presentation.NewBookDetailViewModel(n.repo, r.ID)
		if selected := n.shared.SelectedBook(); selected != nil && selected.ID == r.ID {
			screen.Detail.OnSelectedBookChanged(*selected)
		}
	default:
		if route == FavoriteBookList {
			screen.Favorites = presentation.NewFavoriteBookListViewModel(n.repo)
		} else {
			screen.List = presentation.NewBookListViewModel(n.repo, n.debounce)
		}
	}

	n.mu.Lock()
	n.stack = append(n.stack, screen)
	n.mu.Unlock()

	n.entered(screen)
	log.Printf("[NAV] -> %s", route.Name())
	return screen
}

// SelectBook stores b as the shared selection and opens its detail screen.
// The detail screen gets the selected book directly instead of fetching it.
func (n *Navigator) SelectBook(b book.Book) *Screen {
	n.shared.OnSelectBook(&b)
	return n.Navigate(BookDetail{ID: b.ID})
}

// NavigateUp pops the current screen and closes its view model. The start
// screen is never popped; false is returned in that case.
func (n *Navigator) NavigateUp() bool {
	n.mu.Lock()
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return false
	}
	popped := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	current := n.stack[len(n.stack)-1]
	n.mu.Unlock()

	popped.close()
	n.entered(current)
	log.Printf("[NAV] <- %s", current.Route.Name())
	return true
}

// Close tears down every screen on the back stack.
func (n *Navigator) Close() {
	n.mu.Lock()
	stack := n.stack
	n.stack = nil
	n.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].close()
	}
	n.shared.Close()
}

// entered runs whenever screen becomes the top of the stack. The list
// screens drop any selection left over from a detail screen.
func (n *Navigator) entered(screen *Screen) {
	if screen.Route == BookList || screen.Route == FavoriteBookList {
		n.shared.OnSelectBook(nil)
	}
}
