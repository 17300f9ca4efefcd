package catalog

import (
	"github.com/mesh-intelligence/trailmap/internal/query"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// DefaultFeatured is the number of trails Featured returns when asked for a
// non-positive count.
const DefaultFeatured = 8

// Featured returns the n highest-rated trails, ties broken as query.Sort
// breaks them.
func (c *Catalog) Featured(n int) []types.Trail {
	if n <= 0 {
		n = DefaultFeatured
	}
	sorted := query.Sort(c.trails, types.SortRating)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
