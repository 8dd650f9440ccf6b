package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/navigation"
	"github.com/mrlokans/bookie/internal/presentation"
)

const browseHelp = `Commands:
  search <query>  search OpenLibrary from the book list
  open <n>        show details of book n on the current list
  fav             add or remove the open book from favorites
  favorites       show favorite books
  back            go to the previous screen
  help            show this help
  quit            exit
`

// stateWaitTimeout bounds how long the browser waits for a screen to load.
const stateWaitTimeout = 30 * time.Second

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse books and favorites in the terminal",
		Long: `Starts an interactive session on top of the same screens the API serves:
the book list, the favorites list and the book detail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			app, err := newLocalApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			b := NewBrowser(app.Repository, cmd.InOrStdin(), cmd.OutOrStdout())
			return b.Run(cmd.Context())
		},
	}
}

// Browser is a line-oriented front end for the navigator.
type Browser struct {
	repo book.Repository
	nav  *navigation.Navigator
	in   io.Reader
	out  io.Writer
}

// NewBrowser creates a browser reading commands from in. Typed searches run
// right away, so no debounce applies.
func NewBrowser(repo book.Repository, in io.Reader, out io.Writer) *Browser {
	return &Browser{
		repo: repo,
		nav:  navigation.NewNavigator(repo, 0),
		in:   in,
		out:  out,
	}
}

// Run processes commands until quit, end of input or ctx is done.
func (b *Browser) Run(ctx context.Context) error {
	defer b.nav.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(b.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprint(b.out, browseHelp)
	for {
		fmt.Fprintf(b.out, "%s> ", b.nav.Current().Route.Name())

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch command {
		case "":
		case "search":
			b.search(arg)
		case "open":
			b.open(ctx, arg)
		case "fav":
			b.toggleFavorite(ctx)
		case "favorites":
			b.favorites(ctx)
		case "back":
			if !b.nav.NavigateUp() {
				fmt.Fprintln(b.out, "Already on the book list.")
			}
		case "help":
			fmt.Fprint(b.out, browseHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(b.out, "Unknown command %q. Type help for the list of commands.\n", command)
		}
	}
}

func (b *Browser) search(query string) {
	for b.nav.Current().List == nil {
		b.nav.NavigateUp()
	}
	list := b.nav.Current().List
	list.Submit(query)

	state := list.State().Value()
	if state.ErrorMessage != nil {
		fmt.Fprintln(b.out, *state.ErrorMessage)
		return
	}
	printBooks(b.out, state.SearchResults)
}

func (b *Browser) open(ctx context.Context, arg string) {
	books := b.currentBooks()
	if len(books) == 0 {
		fmt.Fprintln(b.out, "Nothing to open here.")
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(books) {
		fmt.Fprintf(b.out, "Pick a number between 1 and %d.\n", len(books))
		return
	}

	detail := b.nav.SelectBook(books[n-1]).Detail
	state := waitFor(ctx, detail.State(), func(s presentation.BookDetailState) bool { return !s.IsLoading })
	printDetail(b.out, state)
}

func (b *Browser) toggleFavorite(ctx context.Context) {
	detail := b.nav.Current().Detail
	if detail == nil {
		fmt.Fprintln(b.out, "Open a book first.")
		return
	}

	// The screen learns the favorite status asynchronously; wait until it
	// agrees with the store so the click toggles the right way.
	wasFavorite := b.isFavorite(ctx, detail.BookID())
	waitFor(ctx, detail.State(), func(s presentation.BookDetailState) bool { return s.IsFavorite == wasFavorite })

	if err := detail.OnFavoriteClick(ctx); err != nil {
		fmt.Fprintln(b.out, presentation.ErrorMessage(err))
		return
	}
	waitFor(ctx, detail.State(), func(s presentation.BookDetailState) bool { return s.IsFavorite != wasFavorite })
	if wasFavorite {
		fmt.Fprintln(b.out, "Removed from favorites.")
	} else {
		fmt.Fprintln(b.out, "Added to favorites.")
	}
}

func (b *Browser) favorites(ctx context.Context) {
	if b.nav.Current().Route != navigation.FavoriteBookList {
		b.nav.Navigate(navigation.FavoriteBookList)
	}
	state := waitFor(ctx, b.nav.Current().Favorites.State(), func(s presentation.FavoriteBookListState) bool { return !s.IsLoading })
	printBooks(b.out, state.FavoriteBooks)
}

func (b *Browser) isFavorite(ctx context.Context, id string) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return <-b.repo.IsBookFavorite(ctx, id)
}

// currentBooks is the list that open indexes into, or nil on a detail screen.
func (b *Browser) currentBooks() []book.Book {
	screen := b.nav.Current()
	switch {
	case screen.List != nil:
		return screen.List.State().Value().SearchResults
	case screen.Favorites != nil:
		return screen.Favorites.State().Value().FavoriteBooks
	default:
		return nil
	}
}

// waitFor blocks until state satisfies done, ctx ends or stateWaitTimeout
// passes, and returns the last value seen.
func waitFor[T any](ctx context.Context, state *presentation.State[T], done func(T) bool) T {
	ctx, cancel := context.WithTimeout(ctx, stateWaitTimeout)
	defer cancel()

	last := state.Value()
	for value := range state.Watch(ctx) {
		last = value
		if done(value) {
			break
		}
	}
	return last
}

func printDetail(w io.Writer, state presentation.BookDetailState) {
	if state.Book == nil {
		fmt.Fprintln(w, "No book selected.")
		return
	}
	b := state.Book

	fmt.Fprintln(w, formatBookLine(*b))
	if b.AverageRating != nil {
		fmt.Fprintf(w, "Rating: %.1f", *b.AverageRating)
		if b.RatingCount != nil {
			fmt.Fprintf(w, " (%d ratings)", *b.RatingCount)
		}
		fmt.Fprintln(w)
	}
	if b.NumPages != nil {
		fmt.Fprintf(w, "Pages: %d\n", *b.NumPages)
	}
	if b.NumEditions > 0 {
		fmt.Fprintf(w, "Editions: %d\n", b.NumEditions)
	}
	if state.IsFavorite {
		fmt.Fprintln(w, "In favorites.")
	}
	if state.ErrorMessage != nil {
		fmt.Fprintln(w, *state.ErrorMessage)
	}
	if b.Description != nil {
		fmt.Fprintf(w, "\n%s\n", *b.Description)
	}
}
