package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/presentation"
)

func newSearchCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search OpenLibrary and print the results",
		Example: `  bookie search dune
  bookie search --limit 5 --json "the left hand of darkness"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if limit > 0 {
				cfg.OpenLibrary.SearchLimit = limit
			}

			app, err := newLocalApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			books, err := app.Repository.SearchBooks(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search failed: %s", presentation.ErrorMessage(err))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(books)
			}
			printBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (overrides SEARCH_RESULT_LIMIT)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func printBooks(w io.Writer, books []book.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	for i, b := range books {
		fmt.Fprintf(w, "%3d. %s\n", i+1, formatBookLine(b))
	}
}

func formatBookLine(b book.Book) string {
	line := b.Title
	if len(b.Authors) > 0 {
		line += " by " + strings.Join(b.Authors, ", ")
	}
	if b.FirstPublishYear != "" {
		line += " (" + b.FirstPublishYear + ")"
	}
	return line
}
