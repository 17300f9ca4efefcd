package query

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func TestFilter_EmptyStateReturnsEverything(t *testing.T) {
	trails := makeTrails(40)

	got := Filter(trails, types.FilterState{})

	if diff := cmp.Diff(ids(trails), ids(got)); diff != "" {
		t.Errorf("empty filter changed membership (-want +got):\n%s", diff)
	}
}

func TestFilter_Categories(t *testing.T) {
	trails := []types.Trail{
		{ID: 1, Name: "象山", Difficulty: types.DifficultyEasy, Region: "台北", Length: 2, Rating: 4.5, Seasons: []string{"春"}, Tags: []string{"親子"}},
		{ID: 2, Name: "雪山", Difficulty: types.DifficultyHard, Region: "台中", Length: 21, Rating: 4.9, Seasons: []string{"冬"}, Terrain: []string{"稜線"}},
		{ID: 3, Name: "猴硐", Difficulty: types.DifficultyModerate, Region: "新北", Length: 6, Rating: 3.2, Features: []string{"古道"}},
		{ID: 4, Name: "坪林", Difficulty: types.DifficultyEasy, Region: "新北", Length: 8, Rating: 3.9, Seasons: []string{"秋", "冬"}},
	}

	tests := []struct {
		name   string
		filter types.FilterState
		want   []int
	}{
		{
			name:   "difficulty ORs within category",
			filter: types.FilterState{Difficulty: []types.Difficulty{types.DifficultyEasy, types.DifficultyHard}},
			want:   []int{1, 2, 4},
		},
		{
			name:   "region and difficulty AND across categories",
			filter: types.FilterState{Difficulty: []types.Difficulty{types.DifficultyEasy}, Region: []string{"新北"}},
			want:   []int{4},
		},
		{
			name:   "distance is inclusive",
			filter: types.FilterState{Distance: types.DistanceRange{Min: 2, Max: 8}},
			want:   []int{1, 3, 4},
		},
		{
			name:   "rating excludes strictly below threshold",
			filter: types.FilterState{MinRating: 3.9},
			want:   []int{1, 2, 4},
		},
		{
			name:   "seasons match any selected",
			filter: types.FilterState{Seasons: []string{"冬"}},
			want:   []int{2, 4},
		},
		{
			name:   "terrain",
			filter: types.FilterState{Terrain: []string{"稜線"}},
			want:   []int{2},
		},
		{
			name:   "features",
			filter: types.FilterState{Features: []string{"古道", "瀑布"}},
			want:   []int{3},
		},
		{
			name:   "tags",
			filter: types.FilterState{Tags: []string{"親子"}},
			want:   []int{1},
		},
		{
			name:   "no matches is an empty result",
			filter: types.FilterState{Region: []string{"台東"}},
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(trails, tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	trails := []types.Trail{
		{ID: 1, Name: "Elephant Mountain", Description: "city views"},
		{ID: 2, Name: "金瓜石", Description: "Gold mining town"},
		{ID: 3, Name: "坪林", Tags: []string{"TEA"}},
		{ID: 4, Name: "深坑", Description: "老街"},
		{ID: 5, Name: "觀音山", Description: "山頂有大坑洞"},
	}

	tests := []struct {
		term string
		want []int
	}{
		{term: "elephant", want: []int{1}},
		{term: "GOLD", want: []int{2}},
		{term: "tea", want: []int{3}},
		{term: "坑", want: []int{4, 5}},
		{term: "  坑  ", want: []int{4, 5}},
		{term: "", want: []int{1, 2, 3, 4, 5}},
		{term: "nowhere", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := Filter(trails, types.FilterState{Search: tt.term})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	trails := makeTrails(12)
	before := slices.Clone(trails)

	_ = Filter(trails, types.FilterState{MinRating: 2, Region: []string{"台北"}})

	if diff := cmp.Diff(before, trails); diff != "" {
		t.Errorf("Filter mutated its input (-before +after):\n%s", diff)
	}
}

// TestFilter_MembershipMatchesIndependentPredicate checks that a trail is in
// the result iff it satisfies every active category on its own.
func TestFilter_MembershipMatchesIndependentPredicate(t *testing.T) {
	trails := makeTrails(60)

	states := []types.FilterState{
		{Difficulty: []types.Difficulty{types.DifficultyModerate}},
		{Region: []string{"台北", "花蓮"}, MinRating: 1.8},
		{Seasons: []string{"夏"}, Terrain: []string{"溪谷", "稜線"}},
		{Features: []string{"瀑布"}, Tags: []string{"親子", "賞楓"}, Distance: types.DistanceRange{Min: 3, Max: 9.5}},
		{Difficulty: []types.Difficulty{types.DifficultyEasy, types.DifficultyHard}, Search: "步道0"},
		{Distance: types.DistanceRange{Min: 10}},
	}

	for i, f := range states {
		got := Filter(trails, f)
		in := make(map[int]bool, len(got))
		for _, tr := range got {
			in[tr.ID] = true
		}
		for _, tr := range trails {
			want := satisfies(tr, f)
			require.Equalf(t, want, in[tr.ID], "state %d trail %d", i, tr.ID)
			require.Equal(t, want, Match(tr, f))
		}
	}
}

// satisfies is a deliberately naive restatement of the filter rules.
func satisfies(t types.Trail, f types.FilterState) bool {
	ok := true
	if len(f.Difficulty) > 0 {
		ok = ok && slices.Contains(f.Difficulty, t.Difficulty)
	}
	if len(f.Region) > 0 {
		ok = ok && slices.Contains(f.Region, t.Region)
	}
	ok = ok && t.Length >= f.Distance.Min && (f.Distance.Max <= 0 || t.Length <= f.Distance.Max)
	ok = ok && t.Rating >= f.MinRating
	some := func(sel, have []string) bool {
		if len(sel) == 0 {
			return true
		}
		for _, s := range sel {
			if slices.Contains(have, s) {
				return true
			}
		}
		return false
	}
	ok = ok && some(f.Seasons, t.Seasons) && some(f.Terrain, t.Terrain) &&
		some(f.Features, t.Features) && some(f.Tags, t.Tags)
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		hit := strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term)
		for _, tag := range t.Tags {
			hit = hit || strings.Contains(strings.ToLower(tag), term)
		}
		ok = ok && hit
	}
	return ok
}
