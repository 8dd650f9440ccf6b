package exporters

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/entities"
)

// FavoriteLister returns every stored favorite.
type FavoriteLister interface {
	GetAll(ctx context.Context) ([]entities.FavoriteBook, error)
}

// FavoritesMarkdownExporter exports the stored favorites as Markdown notes.
type FavoritesMarkdownExporter struct {
	favorites        FavoriteLister
	markdownExporter *MarkdownExporter
}

func NewFavoritesMarkdownExporter(favorites FavoriteLister, exportDir string) *FavoritesMarkdownExporter {
	return &FavoritesMarkdownExporter{
		favorites:        favorites,
		markdownExporter: NewMarkdownExporter(exportDir),
	}
}

// ExportFavorites writes every favorite, in the order they were saved.
func (exporter *FavoritesMarkdownExporter) ExportFavorites(ctx context.Context) (ExportResult, error) {
	rows, err := exporter.favorites.GetAll(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to load favorites: %w", err)
	}

	books := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, book.FromEntity(row))
	}

	result, err := exporter.markdownExporter.Export(books)
	if err != nil {
		return result, fmt.Errorf("failed to export to markdown: %w", err)
	}

	log.Printf("Export completed: %d books processed, %d books failed", result.BooksProcessed, result.BooksFailed)
	return result, nil
}

// Compile-time interface implementation checks
var _ BookExporter = (*MarkdownExporter)(nil)
