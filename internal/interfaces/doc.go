// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - Repository: Search, descriptions and live favorites (internal/book/ports.go)
//   - FavoriteBookStore: Keyed favorite table with subscriptions (internal/book/ports.go)
//   - FavoriteGetter: Point lookups for cover requests (internal/http/stores.go)
//   - FavoriteLister: Full favorite list for cover pruning (internal/scheduler/cover_cleanup.go)
//   - SelectionStore: Session-scoped selected book (internal/http/stores.go)
//   - BookExporter: Write books out as Markdown notes (internal/exporters/generic.go)
//
// ## External Service Interfaces
//
//   - RemoteBookDataSource: OpenLibrary search and work details (internal/book/ports.go)
//
// ## Cover Cache Interfaces
//
//   - CoverFetcher: Download-or-reuse cover images (internal/http/stores.go, internal/tasks/cache_cover.go)
//   - CoverPruner: Remove covers of books that are no longer favorites (internal/scheduler/cover_cleanup.go)
//
// ## Activity Log Interfaces
//
//   - ActivityReader: Paged favorites activity log (internal/http/stores.go)
//   - CleanupReporter: Receives cover cleanup results (internal/scheduler/cover_cleanup.go)
//
// ## Background Work Interfaces
//
//   - TaskStatusReader: Task queue status lookups (internal/http/stores.go)
//   - Pinger: Health check probes (internal/http/stores.go)
//
// # Adding a New Remote Catalog
//
// To search a different catalog (e.g., Google Books):
//
//  1. Implement RemoteBookDataSource, returning *dataerror.Remote for every failure
//
//     type GoogleBooksClient struct {
//         apiKey     string
//         httpClient *http.Client
//     }
//
//     func (c *GoogleBooksClient) SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
//     func (c *GoogleBooksClient) GetBookDetails(ctx context.Context, workID string) (*openlibrary.BookWork, error)
//
//     var _ book.RemoteBookDataSource = (*GoogleBooksClient)(nil)
//
//  2. Pass it to book.NewRepository in entrypoint.go
//
// # Adding a New Background Task
//
//  1. Define the task and its processor in internal/tasks/
//
//     type RefreshTask struct { BookID string }
//
//     func (t RefreshTask) Config() backlite.QueueConfig
//
//  2. Register the queue on the task client in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
