package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookie/internal/entities"
)

func TestActivity_RecordsFavoriteChanges(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/favorites", BookRequest{ID: "OL1W", Title: "Dune"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodDelete, "/api/favorites/OL1W", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	env.activity.Wait()

	w = env.do(t, http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[ActivityResponse](t, w)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, defaultActivityLimit, page.Limit)

	types := map[entities.AuditEventType]bool{}
	for _, e := range page.Events {
		types[e.EventType] = true
		assert.Equal(t, "OL1W", e.BookID)
	}
	assert.True(t, types[entities.AuditEventFavoriteAdd])
	assert.True(t, types[entities.AuditEventFavoriteRemove])

	w = env.do(t, http.MethodGet, "/api/activity?type=favorite_remove", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[ActivityResponse](t, w)
	require.Len(t, page.Events, 1)
	assert.Equal(t, entities.AuditEventFavoriteRemove, page.Events[0].EventType)
}

func TestActivity_BookHistory(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"OL1W", "OL2W"} {
		w := env.do(t, http.MethodPost, "/api/favorites", BookRequest{ID: id, Title: "Book " + id})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	env.activity.Wait()

	w := env.do(t, http.MethodGet, "/api/favorites/OL2W/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[ActivityResponse](t, w)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "OL2W", page.Events[0].BookID)
	assert.Equal(t, "Added to favorites: Book OL2W", page.Events[0].Description)
}

func TestActivity_Pagination(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"A1", "A2", "A3"} {
		w := env.do(t, http.MethodPost, "/api/favorites", BookRequest{ID: id, Title: id})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	env.activity.Wait()

	w := env.do(t, http.MethodGet, "/api/activity?limit=2&offset=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[ActivityResponse](t, w)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Events, 1)
	assert.Equal(t, 2, page.Offset)

	w = env.do(t, http.MethodGet, "/api/activity?limit=1000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxActivityLimit, decode[ActivityResponse](t, w).Limit)
}

func TestActivity_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
	}{
		{"unknown type", "/api/activity?type=login"},
		{"zero limit", "/api/activity?limit=0"},
		{"bad limit", "/api/activity?limit=ten"},
		{"negative offset", "/api/activity?offset=-1"},
		{"bad book id", "/api/favorites/not-valid!/history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestActivity_DisabledWithoutService(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) { cfg.Activity = nil })

	w := env.do(t, http.MethodGet, "/api/activity", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
