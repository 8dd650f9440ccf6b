package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	auditlog "github.com/mrlokans/bookie/internal/audit"
	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/covers"
	"github.com/mrlokans/bookie/internal/database"
	auditrepo "github.com/mrlokans/bookie/internal/database/audit"
	"github.com/mrlokans/bookie/internal/database/favorites"
	"github.com/mrlokans/bookie/internal/openlibrary"
	"github.com/mrlokans/bookie/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRemote struct {
	mu           sync.Mutex
	docs         []openlibrary.SearchedBook
	err          error
	descriptions map[string]string
	detailCalls  int
}

func (f *fakeRemote) SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &openlibrary.SearchResponse{NumFound: len(f.docs), Docs: f.docs}, nil
}

func (f *fakeRemote) GetBookDetails(ctx context.Context, workID string) (*openlibrary.BookWork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if f.err != nil {
		return nil, f.err
	}
	work := &openlibrary.BookWork{}
	if d, ok := f.descriptions[workID]; ok {
		work.Description = &d
	}
	return work, nil
}

func (f *fakeRemote) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type testEnv struct {
	db        *database.Database
	remote    *fakeRemote
	favorites *favorites.Repository
	repo      *book.DefaultRepository
	sessions  *session.Manager
	covers    *covers.Cache
	activity  *auditlog.Service
	router    *gin.Engine
}

func newTestEnv(t *testing.T, mutate ...func(*RouterConfig)) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "bookie.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := session.NewManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)

	cache, err := covers.NewCache(filepath.Join(t.TempDir(), "covers"))
	require.NoError(t, err)

	remote := &fakeRemote{descriptions: map[string]string{}}
	store := favorites.NewRepository(db.DB)
	repo := book.NewRepository(remote, store, 20)

	activity := auditlog.NewService(auditrepo.NewRepository(db.DB))
	repo.OnFavoriteAdded(func(ctx context.Context, b book.Book) { activity.LogFavoriteAdded(b.ID, b.Title) })
	repo.OnFavoriteRemoved(func(ctx context.Context, id string) { activity.LogFavoriteRemoved(id) })

	cfg := RouterConfig{
		Repository:   repo,
		Favorites:    store,
		CoverCache:   cache,
		Sessions:     sessions,
		Activity:     activity,
		HealthChecks: map[string]Pinger{"database": db},
		Version:      "test",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return &testEnv{
		db:        db,
		remote:    remote,
		favorites: store,
		repo:      repo,
		sessions:  sessions,
		covers:    cache,
		activity:  activity,
		router:    NewRouter(cfg),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func intPtr(i int) *int { return &i }
