package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Reviews summarizes the bundled reviews of one trail, newest first. A trail
// without reviews yields a summary with Count 0 and an empty list.
// Returns ErrNotFound if the trail does not exist.
func (c *Catalog) Reviews(trailID int) (types.ReviewSummary, error) {
	if !c.Has(trailID) {
		return types.ReviewSummary{}, fmt.Errorf("trail %d: %w", trailID, types.ErrNotFound)
	}
	list := slices.Clone(c.reviews[trailID])
	if list == nil {
		list = []types.Review{}
	}
	sum := types.ReviewSummary{
		TrailID: trailID,
		Count:   len(list),
		Reviews: list,
	}
	if len(list) > 0 {
		var total float64
		for _, r := range list {
			total += r.Rating
		}
		sum.AverageRating = total / float64(len(list))
	}
	return sum, nil
}

// sortReviews orders reviews newest first, then by user for equal dates.
func sortReviews(rs []types.Review) {
	slices.SortStableFunc(rs, func(a, b types.Review) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.User, b.User)
	})
}
