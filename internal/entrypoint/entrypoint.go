package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/bookie/internal/audit"
	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/covers"
	"github.com/mrlokans/bookie/internal/database"
	auditrepo "github.com/mrlokans/bookie/internal/database/audit"
	"github.com/mrlokans/bookie/internal/database/favorites"
	http_controllers "github.com/mrlokans/bookie/internal/http"
	"github.com/mrlokans/bookie/internal/openlibrary"
	"github.com/mrlokans/bookie/internal/scheduler"
	"github.com/mrlokans/bookie/internal/session"
	"github.com/mrlokans/bookie/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds every long-lived component built from the configuration.
// Optional components stay nil when disabled or when they fail to start.
type App struct {
	Config     *config.Config
	DB         *database.Database
	Favorites  *favorites.Repository
	Remote     *openlibrary.Client
	Repository *book.DefaultRepository
	Activity   *audit.Service

	Covers       *covers.Cache
	Tasks        *tasks.Client
	Sessions     *session.Manager
	CoverCleanup *scheduler.CoverCleanupScheduler
	RateLimiter  *http_controllers.IPRateLimiter

	taskCancel context.CancelFunc
}

// NewApp opens the database and wires the repository with its optional
// cover cache, task queue and session store.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		Favorites: favorites.NewRepository(db.DB),
		Remote: openlibrary.NewClient(openlibrary.Config{
			BaseURL:           cfg.OpenLibrary.BaseURL,
			Timeout:           cfg.OpenLibrary.Timeout,
			RequestsPerSecond: cfg.OpenLibrary.RequestsPerSecond,
		}),
	}
	app.Repository = book.NewRepository(app.Remote, app.Favorites, cfg.OpenLibrary.SearchLimit)
	if cfg.HTTP.RateLimitRPS > 0 {
		app.RateLimiter = http_controllers.NewIPRateLimiter(
			rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst, http_controllers.ClientLimiterIdle)
	}

	app.Activity = audit.NewService(auditrepo.NewRepository(db.DB))
	app.Repository.OnFavoriteAdded(func(ctx context.Context, b book.Book) {
		app.Activity.LogFavoriteAdded(b.ID, b.Title)
	})
	app.Repository.OnFavoriteRemoved(func(ctx context.Context, id string) {
		app.Activity.LogFavoriteRemoved(id)
	})
	if cfg.Activity.Retention > 0 {
		if deleted, err := app.Activity.DeleteOldEvents(context.Background(), cfg.Activity.Retention); err != nil {
			log.Printf("WARNING: Failed to prune activity log: %v", err)
		} else if deleted > 0 {
			log.Printf("Pruned %d activity log entries older than %v", deleted, cfg.Activity.Retention)
		}
	}

	coverCache, err := covers.NewCache(cfg.Covers.Dir, cfg.Covers.AllowedOrigins...)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
	} else {
		app.Covers = coverCache
		log.Printf("Cover cache initialized at %s", cfg.Covers.Dir)
		app.Repository.OnFavoriteRemoved(app.invalidateCover)
	}

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}
		taskClient, err := tasks.NewClient(cfg.Tasks.DatabasePath, taskCfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.Tasks = taskClient
		if app.Covers != nil {
			app.Tasks.Register(tasks.NewCacheCoverQueue(app.Covers, taskCfg))
			app.Repository.OnFavoriteAdded(app.enqueueCover)
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	app.Sessions, err = session.NewManager(sqlDB, cfg.Session)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	if app.Covers != nil && cfg.Covers.CleanupEnabled {
		app.CoverCleanup = scheduler.NewCoverCleanupScheduler(app.Covers, app.Favorites, cfg.Covers.CleanupSchedule)
		app.CoverCleanup.SetReporter(app.Activity)
	}

	return app, nil
}

func (a *App) enqueueCover(ctx context.Context, b book.Book) {
	if b.ImageURL == "" || !a.Covers.Allows(b.ImageURL) {
		return
	}
	id, err := a.Tasks.EnqueueCover(b.ID, b.ImageURL)
	if err != nil {
		log.Printf("[TASK] Failed to enqueue cover for %s: %v", b.ID, err)
		return
	}
	if id != "" {
		log.Printf("[TASK] Enqueued cover download %s for %s", id, b.ID)
	}
}

func (a *App) invalidateCover(ctx context.Context, id string) {
	if err := a.Covers.Invalidate(id); err != nil {
		log.Printf("[COVERS] Failed to drop cover for %s: %v", id, err)
	}
}

// StartBackground starts the task workers and the cover cleanup schedule.
// Both stop when ctx is done or Shutdown is called.
func (a *App) StartBackground(ctx context.Context) {
	if a.Tasks != nil {
		taskCtx, cancel := context.WithCancel(ctx)
		a.taskCancel = cancel
		go a.Tasks.Start(taskCtx)
	}
	if a.CoverCleanup != nil {
		if err := a.CoverCleanup.Start(ctx); err != nil {
			log.Printf("WARNING: Cover cleanup disabled: %v", err)
		}
	}
}

// Shutdown stops background work, waiting for running tasks until ctx ends.
// Pending activity writes are drained by Close, once no request can add more.
func (a *App) Shutdown(ctx context.Context) {
	if a.CoverCleanup != nil {
		a.CoverCleanup.Stop()
	}
	if a.Tasks != nil && a.taskCancel != nil {
		a.Tasks.Stop(ctx)
		a.taskCancel()
	}
}

// Close drains pending activity writes and releases the databases. Call it
// after the HTTP server has stopped.
func (a *App) Close() {
	if a.RateLimiter != nil {
		a.RateLimiter.Stop()
	}
	if a.Activity != nil {
		a.Activity.Wait()
	}
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// RouterConfig collects the HTTP dependencies of the app.
func (a *App) RouterConfig(version string) http_controllers.RouterConfig {
	checks := map[string]http_controllers.Pinger{"database": a.DB}
	routerCfg := http_controllers.RouterConfig{
		Repository:     a.Repository,
		Favorites:      a.Favorites,
		Sessions:       a.Sessions,
		Activity:       a.Activity,
		HealthChecks:   checks,
		AllowedOrigins: a.Config.CORS.AllowedOrigins,
		HTTPSOnly:      a.Config.Session.SecureCookies,
		Version:        version,
	}
	// Typed nils must not leak into the interface fields
	if a.Covers != nil {
		routerCfg.CoverCache = a.Covers
	}
	if a.RateLimiter != nil {
		routerCfg.RateLimiter = a.RateLimiter
	}
	if a.Tasks != nil {
		routerCfg.TaskClient = a.Tasks
		checks["tasks"] = a.Tasks
	}
	return routerCfg
}

// Serve runs the HTTP server until ctx is done, then shuts it down within
// the configured timeout.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	// Request contexts end when shutdown starts, so long-lived streams let go
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

// Run builds the app and serves the HTTP API until ctx is done.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	log.Printf("Starting Bookie v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.StartBackground(ctx)

	router := http_controllers.NewRouter(app.RouterConfig(version))
	return Serve(ctx, router, cfg, app.Shutdown)
}
