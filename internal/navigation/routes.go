// Package navigation wires the book screens together: a back stack of routes
// and the selection shared by every screen of the book graph.
package navigation

import "fmt"

// Route identifies a screen. BookGraph is the parent of the other three and
// owns the shared selection.
type Route interface {
	Name() string
}

type bookGraph struct{}

func (bookGraph) Name() string { return "book_graph" }

type bookList struct{}

func (bookList) Name() string { return "book_list" }

type favoriteBookList struct{}

func (favoriteBookList) Name() string { return "favorite_book_list" }

// BookDetail opens the detail screen for one book.
type BookDetail struct {
	ID string
}

func (r BookDetail) Name() string { return fmt.Sprintf("book_detail/%s", r.ID) }

var (
	BookGraph        Route = bookGraph{}
	BookList         Route = bookList{}
	FavoriteBookList Route = favoriteBookList{}
)
