package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Sort returns a new slice holding trails ordered by key. Ties are broken by
// name ascending and then by id ascending, so the result does not depend on
// input order. An unknown key sorts by rating.
func Sort(trails []types.Trail, key types.SortKey) []types.Trail {
	out := slices.Clone(trails)
	primary := comparator(key)
	slices.SortStableFunc(out, func(a, b types.Trail) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func comparator(key types.SortKey) func(a, b types.Trail) int {
	switch key {
	case types.SortLengthAsc:
		return func(a, b types.Trail) int { return cmp.Compare(a.Length, b.Length) }
	case types.SortLengthDesc:
		return func(a, b types.Trail) int { return cmp.Compare(b.Length, a.Length) }
	case types.SortUpdated:
		return func(a, b types.Trail) int { return b.LastUpdated.Compare(a.LastUpdated) }
	default:
		return func(a, b types.Trail) int { return cmp.Compare(b.Rating, a.Rating) }
	}
}
