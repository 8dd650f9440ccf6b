package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookie/internal/book"
)

// BooksController serves catalog searches and book descriptions.
type BooksController struct {
	repo book.Repository
}

func NewBooksController(repo book.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query string      `json:"query"`
	Count int         `json:"count"`
	Books []book.Book `json:"books"`
}

// Search handles GET /api/books/search?q=
func (bc *BooksController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	books, err := bc.repo.SearchBooks(c.Request.Context(), query)
	if err != nil {
		respondDataError(c, err, "search books")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Query: query, Count: len(books), Books: books})
}

// DescriptionResponse is the body of GET /api/books/:id/description.
type DescriptionResponse struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
}

// GetDescription handles GET /api/books/:id/description
// Favorites are answered from the local store without calling OpenLibrary.
func (bc *BooksController) GetDescription(c *gin.Context) {
	id, ok := parseBookID(c, "id")
	if !ok {
		return
	}

	description, err := bc.repo.GetBookDescription(c.Request.Context(), id)
	if err != nil {
		respondDataError(c, err, "get description")
		return
	}

	c.JSON(http.StatusOK, DescriptionResponse{ID: id, Description: description})
}
