package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookie/internal/audit"
	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/covers"
	"github.com/mrlokans/bookie/internal/database"
	"github.com/mrlokans/bookie/internal/database/favorites"
	"github.com/mrlokans/bookie/internal/exporters"
	"github.com/mrlokans/bookie/internal/http"
	"github.com/mrlokans/bookie/internal/openlibrary"
	"github.com/mrlokans/bookie/internal/scheduler"
	"github.com/mrlokans/bookie/internal/session"
	"github.com/mrlokans/bookie/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Repository implementations
var _ book.Repository = (*book.DefaultRepository)(nil)

// FavoriteBookStore implementations
var _ book.FavoriteBookStore = (*favorites.Repository)(nil)
var _ http.FavoriteGetter = (*favorites.Repository)(nil)
var _ scheduler.FavoriteLister = (*favorites.Repository)(nil)
var _ exporters.FavoriteLister = (*favorites.Repository)(nil)

// BookExporter implementations
var _ exporters.BookExporter = (*exporters.MarkdownExporter)(nil)

// SelectionStore implementations
var _ http.SelectionStore = (*session.Manager)(nil)

// =============================================================================
// External Services
// =============================================================================

// RemoteBookDataSource implementations
var _ book.RemoteBookDataSource = (*openlibrary.Client)(nil)

// =============================================================================
// Cover Cache
// =============================================================================

var _ http.CoverFetcher = (*covers.Cache)(nil)
var _ tasks.CoverFetcher = (*covers.Cache)(nil)
var _ scheduler.CoverPruner = (*covers.Cache)(nil)

// =============================================================================
// Activity Log
// =============================================================================

var _ http.ActivityReader = (*audit.Service)(nil)
var _ scheduler.CleanupReporter = (*audit.Service)(nil)

// =============================================================================
// Background Work and Health
// =============================================================================

var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.Pinger = (*tasks.Client)(nil)
var _ http.Pinger = (*database.Database)(nil)
