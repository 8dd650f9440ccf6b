package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookie/internal/book"
	"github.com/mrlokans/bookie/internal/dataerror"
	"github.com/mrlokans/bookie/internal/openlibrary"
)

func TestBooksController_Search(t *testing.T) {
	t.Run("returns mapped books", func(t *testing.T) {
		env := newTestEnv(t)
		env.remote.docs = []openlibrary.SearchedBook{{
			Key:              "/works/OL1W",
			Title:            "Dune",
			AuthorNames:      []string{"Frank Herbert"},
			CoverKey:         "OL2M",
			FirstPublishYear: intPtr(1965),
		}}

		w := env.do(t, http.MethodGet, "/api/books/search?q=dune", nil)
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[SearchResponse](t, w)
		assert.Equal(t, "dune", res.Query)
		require.Equal(t, 1, res.Count)
		assert.Equal(t, "OL1W", res.Books[0].ID)
		assert.Equal(t, "1965", res.Books[0].FirstPublishYear)
		assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL2M-L.jpg", res.Books[0].ImageURL)
	})

	t.Run("requires a query", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodGet, "/api/books/search?q=%20", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps remote errors", func(t *testing.T) {
		tests := []struct {
			kind   dataerror.RemoteKind
			status int
		}{
			{dataerror.RemoteNoInternet, http.StatusServiceUnavailable},
			{dataerror.RemoteRequestTimeout, http.StatusGatewayTimeout},
			{dataerror.RemoteTooManyRequests, http.StatusTooManyRequests},
			{dataerror.RemoteServer, http.StatusBadGateway},
			{dataerror.RemoteSerialization, http.StatusBadGateway},
			{dataerror.RemoteUnknown, http.StatusBadGateway},
		}

		for _, tt := range tests {
			t.Run(string(tt.kind), func(t *testing.T) {
				env := newTestEnv(t)
				env.remote.setErr(dataerror.NewRemote(tt.kind, nil))

				w := env.do(t, http.MethodGet, "/api/books/search?q=dune", nil)
				assert.Equal(t, tt.status, w.Code)

				res := decode[ErrorResponse](t, w)
				assert.Equal(t, "remote_"+string(tt.kind), res.Code)
				assert.NotEmpty(t, res.Error)
			})
		}
	})
}

func TestBooksController_GetDescription(t *testing.T) {
	t.Run("fetches remote description", func(t *testing.T) {
		env := newTestEnv(t)
		env.remote.descriptions["OL1W"] = "Spice."

		w := env.do(t, http.MethodGet, "/api/books/OL1W/description", nil)
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[DescriptionResponse](t, w)
		assert.Equal(t, "OL1W", res.ID)
		require.NotNil(t, res.Description)
		assert.Equal(t, "Spice.", *res.Description)
	})

	t.Run("favorites are answered locally", func(t *testing.T) {
		env := newTestEnv(t)
		stored := "Stored."
		require.NoError(t, env.repo.AddFavoriteBook(t.Context(), book.Book{ID: "OL1W", Title: "Dune", Description: &stored}))

		w := env.do(t, http.MethodGet, "/api/books/OL1W/description", nil)
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[DescriptionResponse](t, w)
		require.NotNil(t, res.Description)
		assert.Equal(t, "Stored.", *res.Description)
		assert.Equal(t, 0, env.remote.detailCalls)
	})

	t.Run("missing description is null", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodGet, "/api/books/OL9W/description", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"OL9W","description":null}`, w.Body.String())
	})

	t.Run("rejects invalid ids", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodGet, "/api/books/OL1W-x/description", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
