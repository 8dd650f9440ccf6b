package http

import (
	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Repository book.Repository
	Favorites  FavoriteGetter

	// Cover caching (optional)
	CoverCache CoverFetcher

	// Session-scoped selection (optional)
	Sessions *session.Manager

	// Task queue status (optional)
	TaskClient TaskStatusReader

	// Favorites activity log (optional)
	Activity ActivityReader

	// Health checks by name, e.g. "database"
	HealthChecks map[string]Pinger

	// CORS origins; empty or "*" allows any origin
	AllowedOrigins []string

	// Send HSTS on HTTPS requests
	HTTPSOnly bool

	// Per-client limit on the book endpoints; nil disables limiting.
	// The owner stops it on shutdown.
	RateLimiter *IPRateLimiter

	// Application info
	Version string
}
