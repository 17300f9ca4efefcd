package browse

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func TestReduce(t *testing.T) {
	onPage3 := NewState()
	onPage3.Page = 3

	tests := []struct {
		name   string
		state  State
		action Action
		check  func(t *testing.T, got State)
	}{
		{
			name:   "toggle adds value and resets page",
			state:  onPage3,
			action: Toggle(types.CategoryDifficulty, "easy"),
			check: func(t *testing.T, got State) {
				assert.Equal(t, []types.Difficulty{types.DifficultyEasy}, got.Filter.Difficulty)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "distance resets page",
			state:  onPage3,
			action: SetDistance(types.DistanceRange{Min: 1, Max: 5}),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.DistanceRange{Min: 1, Max: 5}, got.Filter.Distance)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "min rating is clamped",
			state:  onPage3,
			action: SetMinRating(9),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.MaxRating, got.Filter.MinRating)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "non-finite distance imposes no constraint",
			state:  onPage3,
			action: SetDistance(types.DistanceRange{Min: math.NaN(), Max: math.Inf(1)}),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.DistanceRange{}, got.Filter.Distance)
				assert.True(t, got.Filter.Distance.IsZero())
			},
		},
		{
			name:   "negative distance bounds become zero",
			state:  onPage3,
			action: SetDistance(types.DistanceRange{Min: -2, Max: 6}),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.DistanceRange{Min: 0, Max: 6}, got.Filter.Distance)
			},
		},
		{
			name:   "NaN min rating becomes zero",
			state:  onPage3,
			action: SetMinRating(math.NaN()),
			check: func(t *testing.T, got State) {
				assert.Zero(t, got.Filter.MinRating)
			},
		},
		{
			name:   "infinite min rating becomes zero",
			state:  onPage3,
			action: SetMinRating(math.Inf(1)),
			check: func(t *testing.T, got State) {
				assert.Zero(t, got.Filter.MinRating)
			},
		},
		{
			name:   "page size is capped",
			state:  onPage3,
			action: SetPageSize(math.MaxInt),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.MaxPageSize, got.PageSize)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "typing does not touch filter or page",
			state:  onPage3,
			action: TypeSearch("坑"),
			check: func(t *testing.T, got State) {
				assert.Equal(t, "坑", got.SearchInput)
				assert.Empty(t, got.Filter.Search)
				assert.Equal(t, 3, got.Page)
				assert.True(t, got.SearchPending())
			},
		},
		{
			name:   "set search applies term",
			state:  onPage3,
			action: SetSearch("坑"),
			check: func(t *testing.T, got State) {
				assert.Equal(t, "坑", got.Filter.Search)
				assert.False(t, got.SearchPending())
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "sort keeps page",
			state:  onPage3,
			action: SetSort(types.SortLengthAsc),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.SortLengthAsc, got.Sort)
				assert.Equal(t, 3, got.Page)
			},
		},
		{
			name:   "page below one becomes one",
			state:  onPage3,
			action: SetPage(-4),
			check: func(t *testing.T, got State) {
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:   "page size falls back to default",
			state:  onPage3,
			action: SetPageSize(0),
			check: func(t *testing.T, got State) {
				assert.Equal(t, types.DefaultPageSize, got.PageSize)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name: "clear resets filters but keeps sort",
			state: State{
				Filter:      types.FilterState{Region: []string{"台北"}, Search: "山", MinRating: 4},
				Sort:        types.SortUpdated,
				Page:        2,
				PageSize:    9,
				SearchInput: "山",
			},
			action: Clear(),
			check: func(t *testing.T, got State) {
				assert.True(t, got.Filter.IsEmpty())
				assert.Empty(t, got.SearchInput)
				assert.Equal(t, types.SortUpdated, got.Sort)
				assert.Equal(t, 1, got.Page)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(tt.state, tt.action)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestReduce_Errors(t *testing.T) {
	s := NewState()
	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"bad category", Toggle("colour", "red"), types.ErrInvalidCategory},
		{"bad difficulty", Toggle(types.CategoryDifficulty, "extreme"), types.ErrInvalidDifficulty},
		{"bad sort", SetSort("popularity"), types.ErrInvalidSortKey},
		{"favorite needs session", ToggleFavorite(1), ErrNotReducible},
		{"unknown", Action{Type: "jump"}, ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(s, tt.action)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, s, got)
		})
	}
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	s := NewState()
	s.Filter.Region = make([]string, 1, 8)
	s.Filter.Region[0] = "台北"
	before := s
	before.Filter = s.Filter.Clone()

	actions := []Action{
		Toggle(types.CategoryRegion, "台中"),
		Toggle(types.CategoryRegion, "台北"),
		SetDistance(types.DistanceRange{Max: 3}),
		SetSearch("x"),
		Clear(),
	}
	for _, a := range actions {
		_, err := Reduce(s, a)
		require.NoError(t, err)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("Reduce modified its input (-want +got):\n%s", diff)
	}
}

func TestParseActionType(t *testing.T) {
	got, err := ParseActionType(" Set-Page ")
	require.NoError(t, err)
	assert.Equal(t, ActionSetPage, got)

	_, err = ParseActionType("explode")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
