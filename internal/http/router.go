package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// hstsMaxAge is one year in seconds.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
// Optional dependencies left nil in cfg disable their routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))
	router.Use(SecurityHeadersMiddleware())
	if cfg.HTTPSOnly {
		router.Use(StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	health := NewHealthController(cfg.HealthChecks, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Book endpoints reach OpenLibrary, so they carry the per-client limit
	booksGroup := api.Group("/books")
	if cfg.RateLimiter != nil {
		booksGroup.Use(cfg.RateLimiter.Middleware())
	}
	booksController := NewBooksController(cfg.Repository)
	booksGroup.GET("/search", booksController.Search)
	booksGroup.GET("/:id/description", booksController.GetDescription)

	// Favorites endpoints
	favoritesController := NewFavoritesController(cfg.Repository)
	api.GET("/favorites", favoritesController.List)
	api.POST("/favorites", favoritesController.Add)
	api.GET("/favorites/stream", favoritesController.Stream)
	api.GET("/favorites/:id", favoritesController.Status)
	api.DELETE("/favorites/:id", favoritesController.Remove)

	// Favorite cover endpoint
	if cfg.CoverCache != nil && cfg.Favorites != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Favorites)
		api.GET("/favorites/:id/cover", coversController.GetCover)
	}

	// Session-scoped selection endpoints
	if cfg.Sessions != nil {
		selectionController := NewSelectionController(cfg.Sessions, cfg.Repository)
		selection := api.Group("/selection", cfg.Sessions.LoadSave())
		selection.GET("", selectionController.Get)
		selection.PUT("", selectionController.Put)
		selection.DELETE("", selectionController.Clear)
		selection.GET("/detail", selectionController.Detail)
	}

	// Activity log endpoints
	if cfg.Activity != nil {
		activityController := NewActivityController(cfg.Activity)
		api.GET("/activity", activityController.List)
		api.GET("/favorites/:id/history", activityController.BookHistory)
	}

	// Task status endpoint
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
