package catalog

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch {
		case r.URL.Path == "/pokemon/pikachu":
			w.Write([]byte(`{"name": "pikachu", "weight": 60, "height": 4, "base_experience": 112}`))
		case r.URL.Path == "/pokemon/missingno":
			http.NotFound(w, r)
		case r.URL.Path == "/planets/" && r.URL.Query().Get("search") == "tatooine":
			w.Write([]byte(`{"count": 1, "results": [{"name": "Tatooine", "population": "200000"}]}`))
		case r.URL.Path == "/people/" && r.URL.Query().Get("search") == "luke skywalker":
			w.Write([]byte(`{"count": 1, "results": [{"name": "Luke Skywalker", "height": "172", "mass": "77"}]}`))
		case r.URL.Path == "/people/":
			w.Write([]byte(`{"count": 0, "results": []}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, srv.URL+"/", srv.Client())

	t.Run("creature", func(t *testing.T) {
		bag, err := f.Fetch(t.Context(), EntityRef{Name: "Pikachu", Universe: "pokemon"})
		require.NoError(t, err)
		assert.EqualValues(t, 60, bag["weight"])
	})

	t.Run("planet search", func(t *testing.T) {
		bag, err := f.Fetch(t.Context(), EntityRef{Name: "Tatooine", Universe: "starwars", Type: "planet"})
		require.NoError(t, err)
		assert.Equal(t, "200000", bag["population"])
	})

	t.Run("person search", func(t *testing.T) {
		bag, err := f.Fetch(t.Context(), EntityRef{Name: "Luke Skywalker", Universe: "scifi", Type: "people"})
		require.NoError(t, err)
		assert.Equal(t, "172", bag["height"])
	})

	t.Run("no search results", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), EntityRef{Name: "Nobody", Universe: "scifi", Type: "person"})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("creature 404", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), EntityRef{Name: "Missingno", Universe: "creature"})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), EntityRef{Name: "Hoth", Universe: "scifi", Type: "planet"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEntityNotFound)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("unknown universe yields empty bag", func(t *testing.T) {
		before := requests.Load()
		bag, err := f.Fetch(t.Context(), EntityRef{Name: "Agumon", Universe: "digimon"})
		require.NoError(t, err)
		assert.Empty(t, bag)
		assert.Equal(t, before, requests.Load())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), EntityRef{Name: " ", Universe: "pokemon"})
		require.Error(t, err)
	})
}
