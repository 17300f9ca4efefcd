package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/internal/kv"
	"github.com/mesh-intelligence/trailmap/internal/server/handlers"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

type fixture struct {
	srv  *httptest.Server
	favs *favorites.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	c, err := catalog.LoadBundled()
	require.NoError(t, err)
	favs, err := favorites.Open(context.Background(), kv.NewMemory())
	require.NoError(t, err)

	s := New(DefaultConfig(), catalog.NewHolder(c), favs, nil)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return fixture{srv: srv, favs: favs}
}

func (f fixture) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f fixture) post(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func itemIDs(v browse.View) []int {
	out := make([]int, len(v.Items))
	for i, it := range v.Items {
		out[i] = it.ID
	}
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.get(t, "/api/health", nil))
}

func TestListTrails(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		query      string
		wantIDs    []int
		wantTotal  int
		wantPage   int
		wantStatus browse.Status
	}{
		{
			name:       "default first page",
			query:      "",
			wantIDs:    []int{12, 6, 10, 7, 9, 17, 1, 8, 11},
			wantTotal:  25,
			wantPage:   1,
			wantStatus: browse.StatusReady,
		},
		{
			name:       "hard by length",
			query:      "?difficulty=hard&sort=length-asc",
			wantIDs:    []int{2, 22, 10, 25, 12, 6},
			wantTotal:  6,
			wantPage:   1,
			wantStatus: browse.StatusReady,
		},
		{
			name:       "categories AND, values OR",
			query:      "?difficulty=easy&region=%E5%8F%B0%E5%8C%97&sort=length-asc",
			wantTotal:  2,
			wantPage:   1,
			wantStatus: browse.StatusReady,
		},
		{
			name:       "search",
			query:      "?search=%E5%9D%91&page_size=20",
			wantTotal:  7,
			wantPage:   1,
			wantStatus: browse.StatusReady,
		},
		{
			name:       "page clamps",
			query:      "?page=99",
			wantTotal:  25,
			wantPage:   3,
			wantStatus: browse.StatusReady,
		},
		{
			name:       "no match",
			query:      "?region=mars",
			wantIDs:    []int{},
			wantTotal:  0,
			wantPage:   1,
			wantStatus: browse.StatusEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v browse.View
			require.Equal(t, http.StatusOK, f.get(t, "/api/v1/trails"+tt.query, &v))
			assert.Equal(t, tt.wantTotal, v.Total)
			assert.Equal(t, tt.wantPage, v.Page)
			assert.Equal(t, tt.wantStatus, v.Status)
			if tt.wantIDs != nil {
				assert.Equal(t, tt.wantIDs, itemIDs(v))
			}
		})
	}
}

func TestListTrails_BadParams(t *testing.T) {
	f := newFixture(t)
	for _, q := range []string{"?sort=popular", "?difficulty=extreme", "?page=two", "?min_rating=x", "?min_rating=NaN", "?max_distance=Inf", "?min_distance=NaN"} {
		assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/trails"+q, nil), q)
	}
}

func TestGetTrail(t *testing.T) {
	f := newFixture(t)

	var it browse.Item
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/trails/1", &it))
	assert.Equal(t, "象山步道", it.Name)
	assert.False(t, it.Favorite)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/trails/9999", nil))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/trails/abc", nil))
}

func TestGetReviews(t *testing.T) {
	f := newFixture(t)

	var s types.ReviewSummary
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/trails/12/reviews", &s))
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 4.5, s.AverageRating, 1e-9)
	require.Len(t, s.Reviews, 2)
	assert.Equal(t, "Jason", s.Reviews[0].User)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/trails/9999/reviews", nil))
}

func TestCatalogExtras(t *testing.T) {
	f := newFixture(t)

	var featured []types.Trail
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/featured", &featured))
	ids := make([]int, len(featured))
	for i, tr := range featured {
		ids[i] = tr.ID
	}
	assert.Equal(t, []int{12, 6, 10, 7, 9, 17, 1, 8}, ids)

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/featured?count=3", &featured))
	assert.Len(t, featured, 3)

	var stats catalog.Stats
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/stats", &stats))
	assert.Equal(t, 25, stats.Count)

	var facets catalog.Facets
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/facets", &facets))
	assert.Len(t, facets.Regions, 9)
}

func TestNearby(t *testing.T) {
	f := newFixture(t)

	var got []catalog.NearbyTrail
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/nearby?lat=24.18&lng=120.74&radius=2", &got))
	ids := make([]int, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	assert.Equal(t, []int{2, 21, 3}, ids)

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/nearby?lat=24.18&lng=120.74&radius=5&limit=1", &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	for _, q := range []string{"", "?lat=24", "?lat=x&lng=1", "?lat=100&lng=1", "?lat=1&lng=1&radius=far", "?lat=NaN&lng=1", "?lat=1&lng=1&radius=NaN"} {
		assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/nearby"+q, nil), q)
	}
}

func TestFavorites(t *testing.T) {
	f := newFixture(t)

	var toggled handlers.FavoriteToggle
	require.Equal(t, http.StatusOK, f.post(t, "/api/v1/favorites/6/toggle", &toggled))
	assert.Equal(t, handlers.FavoriteToggle{ID: 6, Favorite: true}, toggled)
	require.Equal(t, http.StatusOK, f.post(t, "/api/v1/favorites/1/toggle", &toggled))
	assert.True(t, f.favs.Has(1))

	var list handlers.FavoriteList
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/favorites", &list))
	assert.Equal(t, []int{1, 6}, list.IDs)
	require.Len(t, list.Trails, 2)
	assert.Equal(t, "象山步道", list.Trails[0].Name)

	var it browse.Item
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/trails/6", &it))
	assert.True(t, it.Favorite)

	require.Equal(t, http.StatusOK, f.post(t, "/api/v1/favorites/6/toggle", &toggled))
	assert.False(t, toggled.Favorite)

	assert.Equal(t, http.StatusNotFound, f.post(t, "/api/v1/favorites/9999/toggle", nil))
	assert.Equal(t, http.StatusBadRequest, f.post(t, "/api/v1/favorites/x/toggle", nil))
}

func TestFavorites_Unavailable(t *testing.T) {
	c, err := catalog.LoadBundled()
	require.NoError(t, err)
	s := New(DefaultConfig(), catalog.NewHolder(c), nil, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	cfg.Host = "::1"
	assert.Equal(t, "[::1]:8080", cfg.Addr())
}
