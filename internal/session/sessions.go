// Package session stores per-browser state, currently the shared book
// selection, in scs sessions persisted to SQLite.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/config"
)

// Session data keys
const (
	KeySelectedBook = "selected_book"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register(book.Book{})
}

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
		sm.IdleTimeout = cfg.Lifetime / 2
	}

	sm.Cookie.Name = "bookie_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// SelectBook stores b as the selection of the current session.
func (m *Manager) SelectBook(ctx context.Context, b book.Book) {
	m.Put(ctx, KeySelectedBook, b)
}

// SelectedBook returns the selection of the current session, or nil.
func (m *Manager) SelectedBook(ctx context.Context) *book.Book {
	b, ok := m.Get(ctx, KeySelectedBook).(book.Book)
	if !ok {
		return nil
	}
	return &b
}

// ClearSelection drops the selection of the current session.
func (m *Manager) ClearSelection(ctx context.Context) {
	m.Remove(ctx, KeySelectedBook)
}
