package presentation

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/mrlokans/bookie/internal/book"
)

const (
	// DefaultSearchDebounce is how long the query must stay unchanged before a search runs.
	DefaultSearchDebounce = 500 * time.Millisecond
	// MinQueryLength is the shortest query that triggers a search.
	MinQueryLength = 2
)

// BookListState is what the list screen renders. Snapshots are never mutated.
type BookListState struct {
	SearchQuery   string      `json:"search_query"`
	SearchResults []book.Book `json:"search_results"`
	IsLoading     bool        `json:"is_loading"`
	ErrorMessage  *string     `json:"error_message,omitempty"`
}

// BookListViewModel runs debounced searches for the list screen.
//
// The most recent successful result set is kept aside so that clearing the
// query brings it back without another request.
type BookListViewModel struct {
	repo     book.Repository
	debounce time.Duration
	state    *State[BookListState]

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	timer        *time.Timer
	searchCancel context.CancelFunc
	generation   uint64
	// scheduled changes whenever the pending timer is replaced or dropped
	scheduled   uint64
	cachedBooks []book.Book
}

// NewBookListViewModel creates a list view model. A debounce of zero uses DefaultSearchDebounce.
func NewBookListViewModel(repo book.Repository, debounce time.Duration) *BookListViewModel {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BookListViewModel{
		repo:     repo,
		debounce: debounce,
		state:    NewState(BookListState{SearchResults: []book.Book{}}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State exposes the observable screen state.
func (vm *BookListViewModel) State() *State[BookListState] {
	return vm.state
}

// OnSearchQueryChange records the typed query and schedules a search once
// typing pauses. A blank query restores the cached results; queries shorter
// than MinQueryLength do nothing else.
func (vm *BookListViewModel) OnSearchQueryChange(query string) {
	vm.state.Update(func(s BookListState) BookListState {
		s.SearchQuery = query
		return s
	})

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.stopTimerLocked()

	normalized := normalizeQuery(query)
	switch {
	case normalized == "":
		vm.cancelSearchLocked()
		cached := vm.cachedBooks
		vm.state.Update(func(s BookListState) BookListState {
			s.SearchResults = cached
			s.IsLoading = false
			s.ErrorMessage = nil
			return s
		})
	case len([]rune(normalized)) >= MinQueryLength:
		scheduled := vm.scheduled
		vm.timer = time.AfterFunc(vm.debounce, func() {
			vm.runScheduled(scheduled, normalized)
		})
	}
}

// Submit searches for query right away, skipping the debounce, and returns
// once the search has finished.
func (vm *BookListViewModel) Submit(query string) {
	vm.state.Update(func(s BookListState) BookListState {
		s.SearchQuery = query
		return s
	})

	normalized := normalizeQuery(query)
	if normalized == "" {
		vm.OnSearchQueryChange(query)
		return
	}

	vm.mu.Lock()
	vm.stopTimerLocked()
	done := vm.startSearchLocked(normalized)
	vm.mu.Unlock()
	<-done
}

// Close cancels any pending or running search.
func (vm *BookListViewModel) Close() {
	vm.mu.Lock()
	vm.stopTimerLocked()
	vm.mu.Unlock()
	vm.cancel()
}

// stopTimerLocked drops the pending search. A callback that already fired
// sees the new scheduled value and gives up.
func (vm *BookListViewModel) stopTimerLocked() {
	if vm.timer != nil {
		vm.timer.Stop()
		vm.timer = nil
	}
	vm.scheduled++
}

// runScheduled is the debounce callback. It only searches if no query change
// happened since it was scheduled.
func (vm *BookListViewModel) runScheduled(scheduled uint64, query string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if scheduled != vm.scheduled || vm.ctx.Err() != nil {
		return
	}
	vm.timer = nil
	vm.startSearchLocked(query)
}

// startSearchLocked cancels the running search, if any, and starts a new
// one. The returned channel is closed when the new search is done.
func (vm *BookListViewModel) startSearchLocked(query string) <-chan struct{} {
	done := make(chan struct{})

	vm.cancelSearchLocked()
	ctx, cancel := context.WithCancel(vm.ctx)
	vm.searchCancel = cancel
	vm.generation++
	generation := vm.generation

	vm.state.Update(func(s BookListState) BookListState {
		s.IsLoading = true
		return s
	})

	go func() {
		defer close(done)
		defer cancel()

		books, err := vm.repo.SearchBooks(ctx, query)

		vm.mu.Lock()
		defer vm.mu.Unlock()
		if generation != vm.generation || ctx.Err() != nil {
			return
		}
		if err == nil && len(books) > 0 {
			vm.cachedBooks = books
		}

		vm.state.Update(func(s BookListState) BookListState {
			s.IsLoading = false
			if err != nil {
				s.SearchResults = []book.Book{}
				s.ErrorMessage = errorMessagePtr(err)
				return s
			}
			s.SearchResults = books
			s.ErrorMessage = nil
			return s
		})
	}()

	return done
}

func (vm *BookListViewModel) cancelSearchLocked() {
	if vm.searchCancel != nil {
		vm.searchCancel()
		vm.searchCancel = nil
	}
	vm.generation++
}

// normalizeQuery trims the query and puts it in NFC form so visually equal
// queries hit the remote the same way.
func normalizeQuery(query string) string {
	return norm.NFC.String(strings.TrimSpace(query))
}
