package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookie/internal/book"
)

// SelectionController exposes the book shared between the list and detail
// screens of one client session.
type SelectionController struct {
	store SelectionStore
	repo  book.Repository
}

func NewSelectionController(store SelectionStore, repo book.Repository) *SelectionController {
	return &SelectionController{store: store, repo: repo}
}

// SelectionResponse wraps the current selection, which may be null.
type SelectionResponse struct {
	Selected *book.Book `json:"selected"`
}

// Get handles GET /api/selection
func (sc *SelectionController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, SelectionResponse{Selected: sc.store.SelectedBook(c.Request.Context())})
}

// Put handles PUT /api/selection
func (sc *SelectionController) Put(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid book: "+err.Error())
		return
	}

	b := req.Book()
	sc.store.SelectBook(c.Request.Context(), b)
	c.JSON(http.StatusOK, SelectionResponse{Selected: &b})
}

// Clear handles DELETE /api/selection
func (sc *SelectionController) Clear(c *gin.Context) {
	sc.store.ClearSelection(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// SelectionDetailResponse is what the detail screen needs for the selection.
type SelectionDetailResponse struct {
	Book       book.Book `json:"book"`
	IsFavorite bool      `json:"is_favorite"`
}

// Detail handles GET /api/selection/detail
// The selected book is returned with its description loaded and its
// current favorite status.
func (sc *SelectionController) Detail(c *gin.Context) {
	selected := sc.store.SelectedBook(c.Request.Context())
	if selected == nil {
		respondNotFound(c, "selection")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	description, err := sc.repo.GetBookDescription(ctx, selected.ID)
	if err != nil {
		respondDataError(c, err, "selection detail")
		return
	}

	isFavorite, _ := firstValue(ctx, sc.repo.IsBookFavorite(ctx, selected.ID))

	c.JSON(http.StatusOK, SelectionDetailResponse{
		Book:       selected.WithDescription(description),
		IsFavorite: isFavorite,
	})
}
