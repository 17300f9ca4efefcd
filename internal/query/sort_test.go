package query

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func TestSort_Keys(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	trails := []types.Trail{
		{ID: 1, Name: "b", Rating: 4.0, Length: 5, LastUpdated: day(3)},
		{ID: 2, Name: "a", Rating: 4.0, Length: 12, LastUpdated: day(1)},
		{ID: 3, Name: "c", Rating: 4.8, Length: 5, LastUpdated: day(9)},
		{ID: 4, Name: "d", Rating: 2.1, Length: 1.5, LastUpdated: day(3)},
	}

	tests := []struct {
		key  types.SortKey
		want []int
	}{
		{key: types.SortRating, want: []int{3, 2, 1, 4}},
		{key: types.SortLengthAsc, want: []int{4, 1, 3, 2}},
		{key: types.SortLengthDesc, want: []int{2, 1, 3, 4}},
		{key: types.SortUpdated, want: []int{3, 1, 4, 2}},
		{key: types.SortKey("bogus"), want: []int{3, 2, 1, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(trails, tt.key)))
		})
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	trails := makeTrails(20)
	before := ids(trails)

	_ = Sort(trails, types.SortLengthDesc)

	assert.Equal(t, before, ids(trails))
}

func TestSort_IdempotentAndOrderIndependent(t *testing.T) {
	trails := makeTrails(50)
	r := rand.New(rand.NewPCG(1, 2))

	for _, key := range types.SortKeys {
		want := Sort(trails, key)

		again := Sort(want, key)
		if diff := cmp.Diff(ids(want), ids(again)); diff != "" {
			t.Errorf("%s: sorting a sorted list changed it (-want +got):\n%s", key, diff)
		}

		shuffled := slices.Clone(trails)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if diff := cmp.Diff(ids(want), ids(Sort(shuffled, key))); diff != "" {
			t.Errorf("%s: order depends on input order (-want +got):\n%s", key, diff)
		}
	}
}

func TestSort_RatingTiesBreakByName(t *testing.T) {
	trails := makeTrails(50)
	sorted := Sort(trails, types.SortRating)

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		assert.GreaterOrEqual(t, prev.Rating, cur.Rating)
		if prev.Rating == cur.Rating {
			assert.LessOrEqual(t, prev.Name, cur.Name, "ties must be ordered by ascending name")
		}
	}
}
