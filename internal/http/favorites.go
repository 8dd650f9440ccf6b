package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookie/internal/book"
)

// snapshotTimeout bounds how long a handler waits for the first snapshot of a subscription.
const snapshotTimeout = 5 * time.Second

// FavoritesController manages the locally stored favorites.
type FavoritesController struct {
	repo book.Repository
}

func NewFavoritesController(repo book.Repository) *FavoritesController {
	return &FavoritesController{repo: repo}
}

// BookRequest is the JSON form of a book sent by clients.
type BookRequest struct {
	ID               string   `json:"id" binding:"required,alphanum,max=64"`
	Title            string   `json:"title" binding:"required"`
	ImageURL         string   `json:"image_url"`
	Authors          []string `json:"authors"`
	Description      *string  `json:"description"`
	Languages        []string `json:"languages"`
	FirstPublishYear string   `json:"first_publish_year"`
	AverageRating    *float64 `json:"average_rating"`
	RatingCount      *int     `json:"rating_count"`
	NumPages         *int     `json:"num_pages"`
	NumEditions      int      `json:"num_editions" binding:"min=0"`
}

// Book converts the request into a domain book.
func (r BookRequest) Book() book.Book {
	b := book.Book{
		ID:               r.ID,
		Title:            r.Title,
		ImageURL:         r.ImageURL,
		Authors:          nonNil(r.Authors),
		Languages:        nonNil(r.Languages),
		FirstPublishYear: r.FirstPublishYear,
		AverageRating:    r.AverageRating,
		RatingCount:      r.RatingCount,
		NumPages:         r.NumPages,
		NumEditions:      r.NumEditions,
	}
	return b.WithDescription(r.Description)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// FavoritesResponse lists favorites in insertion order.
type FavoritesResponse struct {
	Count int         `json:"count"`
	Books []book.Book `json:"books"`
}

// List handles GET /api/favorites
func (fc *FavoritesController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	books, ok := firstValue(ctx, fc.repo.GetFavoriteBooks(ctx))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "favorites unavailable"})
		return
	}

	c.JSON(http.StatusOK, FavoritesResponse{Count: len(books), Books: books})
}

// Add handles POST /api/favorites
func (fc *FavoritesController) Add(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid book: "+err.Error())
		return
	}

	b := req.Book()
	if err := fc.repo.AddFavoriteBook(c.Request.Context(), b); err != nil {
		respondDataError(c, err, "add favorite")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Remove handles DELETE /api/favorites/:id
// Deleting a book that is not a favorite succeeds.
func (fc *FavoritesController) Remove(c *gin.Context) {
	id, ok := parseBookID(c, "id")
	if !ok {
		return
	}

	fc.repo.DeleteFavoriteBook(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// FavoriteStatusResponse tells whether a book is a favorite.
type FavoriteStatusResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

// Status handles GET /api/favorites/:id
func (fc *FavoritesController) Status(c *gin.Context) {
	id, ok := parseBookID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	isFavorite, ok := firstValue(ctx, fc.repo.IsBookFavorite(ctx, id))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "favorites unavailable"})
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{ID: id, IsFavorite: isFavorite})
}

// Stream handles GET /api/favorites/stream
// Sends a "favorites" event with the full list now and after every change,
// until the client goes away.
func (fc *FavoritesController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	snapshots := fc.repo.GetFavoriteBooks(ctx)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	for {
		select {
		case books, ok := <-snapshots:
			if !ok {
				return
			}
			c.SSEvent("favorites", FavoritesResponse{Count: len(books), Books: books})
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
