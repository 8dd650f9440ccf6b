// Package exporters writes favorite books out as Markdown notes, one file
// per book plus an index, ready to drop into an Obsidian vault.
package exporters

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/utils"
)

const openLibraryWorkURL = "https://openlibrary.org/works/"

type MarkdownExporter struct {
	ExportDir     string
	IndexFileName string
	now           func() time.Time
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir:     exportDir,
		IndexFileName: "index.md",
		now:           time.Now,
	}
}

func (exporter *MarkdownExporter) ensureDir() error {
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

// frontmatter is the YAML header of a note. Field order is the output order.
type frontmatter struct {
	ContentSource    string   `yaml:"content_source"`
	ContentType      string   `yaml:"content_type"`
	ExportedAt       string   `yaml:"exported_at"`
	OpenLibraryID    string   `yaml:"openlibrary_id"`
	Title            string   `yaml:"title"`
	Authors          []string `yaml:"authors,omitempty"`
	FirstPublishYear int      `yaml:"first_publish_year,omitempty"`
	Rating           *float64 `yaml:"rating,omitempty"`
	Cover            string   `yaml:"cover,omitempty"`
	Tags             []string `yaml:"tags,flow"`
}

func newFrontmatter(b book.Book, exportedAt time.Time) frontmatter {
	fm := frontmatter{
		ContentSource: "openlibrary",
		ContentType:   "favorite_book",
		ExportedAt:    exportedAt.Format("2006-01-02"),
		OpenLibraryID: b.ID,
		Title:         b.Title,
		Authors:       b.Authors,
		Cover:         b.ImageURL,
		Tags:          []string{"books", "favorites"},
	}
	if year, err := strconv.Atoi(b.FirstPublishYear); err == nil {
		fm.FirstPublishYear = year
	}
	if b.AverageRating != nil {
		rating := math.Round(*b.AverageRating*100) / 100
		fm.Rating = &rating
	}
	return fm
}

// GenerateMarkdown renders one favorite as a note with YAML frontmatter.
func GenerateMarkdown(b book.Book, exportedAt time.Time) (string, error) {
	header, err := yaml.Marshal(newFrontmatter(b, exportedAt))
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var builder strings.Builder
	builder.WriteString("---\n")
	builder.Write(header)
	builder.WriteString("---\n\n")

	fmt.Fprintf(&builder, "# %s\n\n", strings.Join(strings.Fields(b.Title), " "))
	if len(b.Authors) > 0 {
		fmt.Fprintf(&builder, "by %s\n\n", strings.Join(b.Authors, ", "))
	}
	if b.Description != nil && *b.Description != "" {
		fmt.Fprintf(&builder, "## Description\n\n%s\n\n", strings.TrimSpace(*b.Description))
	}

	fmt.Fprintf(&builder, "## Details\n\n")
	if b.NumPages != nil {
		fmt.Fprintf(&builder, "- Pages: %d\n", *b.NumPages)
	}
	if b.NumEditions > 0 {
		fmt.Fprintf(&builder, "- Editions: %d\n", b.NumEditions)
	}
	if len(b.Languages) > 0 {
		fmt.Fprintf(&builder, "- Languages: %s\n", strings.Join(b.Languages, ", "))
	}
	if b.RatingCount != nil {
		fmt.Fprintf(&builder, "- Ratings: %d\n", *b.RatingCount)
	}
	fmt.Fprintf(&builder, "- OpenLibrary: %s%s\n", openLibraryWorkURL, b.ID)

	return builder.String(), nil
}

// Export writes one note per book and an index linking them. A book that
// cannot be written is counted as failed and skipped.
func (exporter *MarkdownExporter) Export(books []book.Book) (ExportResult, error) {
	result := ExportResult{Files: []string{}}

	if err := exporter.ensureDir(); err != nil {
		return result, err
	}

	exportedAt := exporter.now()
	used := make(map[string]bool, len(books))
	var notes []string

	for _, b := range books {
		name := utils.SanitizeFilename(b.Title)
		// Different works can share a title
		if used[strings.ToLower(name)] {
			name = utils.SanitizeFilename(b.Title + " " + b.ID)
		}
		used[strings.ToLower(name)] = true

		markdown, err := GenerateMarkdown(b, exportedAt)
		if err != nil {
			log.Printf("Failed to render book '%s': %v", b.ID, err)
			result.BooksFailed++
			continue
		}
		outputPath := filepath.Join(exporter.ExportDir, name+".md")
		if err := os.WriteFile(outputPath, []byte(markdown), 0644); err != nil {
			log.Printf("Failed to export book '%s': %v", b.Title, err)
			result.BooksFailed++
			continue
		}
		result.BooksProcessed++
		result.Files = append(result.Files, outputPath)
		notes = append(notes, name)
	}

	indexPath := filepath.Join(exporter.ExportDir, exporter.IndexFileName)
	if err := os.WriteFile(indexPath, []byte(generateIndex(notes, exportedAt)), 0644); err != nil {
		return result, fmt.Errorf("failed to write index: %w", err)
	}
	result.Files = append(result.Files, indexPath)

	return result, nil
}

func generateIndex(notes []string, exportedAt time.Time) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# Favorite books\n\n")
	fmt.Fprintf(&builder, "Exported %s, %d books.\n\n", exportedAt.Format("2006-01-02"), len(notes))
	for _, note := range notes {
		fmt.Fprintf(&builder, "- [[%s]]\n", note)
	}
	return builder.String()
}
