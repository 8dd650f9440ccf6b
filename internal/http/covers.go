package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoversController serves covers of favorite books from the local cache.
type CoversController struct {
	cache     CoverFetcher
	favorites FavoriteGetter
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache CoverFetcher, favorites FavoriteGetter) *CoversController {
	return &CoversController{
		cache:     cache,
		favorites: favorites,
	}
}

// GetCover serves a cached favorite cover image.
// GET /api/favorites/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseBookID(c, "id")
	if !ok {
		return
	}

	favorite, err := cc.favorites.GetByID(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "get favorite for cover")
		return
	}
	if favorite == nil || favorite.ImageURL == "" || !cc.cache.Allows(favorite.ImageURL) {
		respondNotFound(c, "cover")
		return
	}

	// Get cached cover (will fetch if not cached)
	cachePath, err := cc.cache.GetCover(c.Request.Context(), id, favorite.ImageURL)
	if err != nil || cachePath == "" {
		log.Printf("[COVERS] Serving %s from origin: %v", id, err)
		c.Redirect(http.StatusTemporaryRedirect, favorite.ImageURL)
		return
	}

	c.File(cachePath)
}
