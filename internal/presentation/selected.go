package presentation

import "github.com/mrlokans/bookie/internal/book"

// SelectedBookViewModel carries the book picked on one screen over to the
// detail screen. It is shared by every screen of the book graph.
type SelectedBookViewModel struct {
	state *State[*book.Book]
}

func NewSelectedBookViewModel() *SelectedBookViewModel {
	return &SelectedBookViewModel{state: NewState[*book.Book](nil)}
}

// OnSelectBook replaces the selection. nil clears it.
func (vm *SelectedBookViewModel) OnSelectBook(b *book.Book) {
	var selected *book.Book
	if b != nil {
		copied := b.WithDescription(b.Description)
		selected = &copied
	}
	vm.state.Update(func(*book.Book) *book.Book { return selected })
}

// SelectedBook returns a copy of the current selection, or nil.
func (vm *SelectedBookViewModel) SelectedBook() *book.Book {
	current := vm.state.Value()
	if current == nil {
		return nil
	}
	copied := current.WithDescription(current.Description)
	return &copied
}

// State exposes the observable selection.
func (vm *SelectedBookViewModel) State() *State[*book.Book] {
	return vm.state
}

func (vm *SelectedBookViewModel) Close() {}
