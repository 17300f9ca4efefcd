package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func TestStateFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, st browse.State)
	}{
		{
			name:  "empty is a fresh state",
			query: "",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, browse.NewState(), st)
			},
		},
		{
			name:  "repeated and comma separated values",
			query: "difficulty=easy,hard&difficulty=easy&seasons=春&seasons=秋",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, []types.Difficulty{types.DifficultyEasy, types.DifficultyHard}, st.Filter.Difficulty)
				assert.Equal(t, []string{"春", "秋"}, st.Filter.Seasons)
			},
		},
		{
			name:  "scalars",
			query: "min_distance=2&max_distance=10&min_rating=4.5&q=山&sort=updated",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, types.DistanceRange{Min: 2, Max: 10}, st.Filter.Distance)
				assert.Equal(t, 4.5, st.Filter.MinRating)
				assert.Equal(t, "山", st.Filter.Search)
				assert.Equal(t, "山", st.SearchInput)
				assert.Equal(t, types.SortUpdated, st.Sort)
			},
		},
		{
			name:  "page applies after page size",
			query: "page=3&page_size=5",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, 3, st.Page)
				assert.Equal(t, 5, st.PageSize)
			},
		},
		{
			name:  "page size is capped",
			query: "page_size=9223372036854775807",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, types.MaxPageSize, st.PageSize)
			},
		},
		{
			name:  "rating clamps",
			query: "min_rating=9",
			check: func(t *testing.T, st browse.State) {
				assert.Equal(t, types.MaxRating, st.Filter.MinRating)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			st, err := StateFromQuery(q)
			require.NoError(t, err)
			tt.check(t, st)
		})
	}
}

func TestStateFromQuery_Errors(t *testing.T) {
	tests := []struct {
		query   string
		wantErr error
	}{
		{"sort=popular", types.ErrInvalidSortKey},
		{"difficulty=extreme", types.ErrInvalidDifficulty},
		{"page=x", errBadParam},
		{"page_size=1.5", errBadParam},
		{"min_distance=near", errBadParam},
		{"min_distance=NaN", errBadParam},
		{"max_distance=Inf", errBadParam},
		{"min_rating=NaN", errBadParam},
		{"min_rating=-Infinity", errBadParam},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			_, err = StateFromQuery(q)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errBadParam)
		})
	}
}

func TestSocketAction(t *testing.T) {
	a, err := SocketAction{Type: "toggle", Category: "region", Value: "台北"}.Action()
	require.NoError(t, err)
	assert.Equal(t, browse.Toggle(types.CategoryRegion, "台北"), a)

	a, err = SocketAction{Type: "set-page", Page: 2}.Action()
	require.NoError(t, err)
	assert.Equal(t, browse.SetPage(2), a)

	_, err = SocketAction{Type: "jump"}.Action()
	assert.ErrorIs(t, err, browse.ErrUnknownAction)

	_, err = SocketAction{Type: "toggle", Category: "colour"}.Action()
	assert.ErrorIs(t, err, types.ErrInvalidCategory)
}
