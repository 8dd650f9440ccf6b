package exporters

import "github.com/mrlokans/bookie/internal/book"

type BookExporter interface {
	Export(books []book.Book) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed int      `json:"books_processed"`
	BooksFailed    int      `json:"books_failed"`
	Files          []string `json:"files"`
}
