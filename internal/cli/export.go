package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/exporters"
)

func newExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export favorite books as Markdown notes",
		Long: `Writes one Markdown note per favorite book, with YAML frontmatter,
plus an index.md linking them. Point --dir at a folder inside an Obsidian
vault to browse favorites there.`,
		Example: `  bookie export --dir ~/vault/Books`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newLocalApp(config.NewConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			exporter := exporters.NewFavoritesMarkdownExporter(app.Favorites, dir)
			result, err := exporter.ExportFavorites(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books to %s", result.BooksProcessed, dir)
			if result.BooksFailed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", result.BooksFailed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write the notes to (required)")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}
