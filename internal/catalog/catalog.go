// Package catalog holds the in-memory trail collection: loading and
// validating data files, lookup by id, bundled reviews, and the derived
// views (facets, featured trails, statistics, nearby trails). A Catalog is
// immutable once built; Holder and Watch swap whole catalogs on reload.
package catalog

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Catalog is a validated, read-only trail collection.
type Catalog struct {
	trails  []types.Trail
	byID    map[int]int
	reviews map[int][]types.Review
}

// New validates trails and builds a Catalog. Non-finite numbers become
// zero, ratings are clamped into [MinRating, MaxRating], negative lengths
// become zero, and nil slices become empty ones. A repeated id rejects the
// whole collection with ErrDuplicateID. Reviews are grouped per trail, newest first.
func New(trails []types.Trail, reviews []types.Review) (*Catalog, error) {
	c := &Catalog{
		trails:  make([]types.Trail, len(trails)),
		byID:    make(map[int]int, len(trails)),
		reviews: make(map[int][]types.Review),
	}
	for i, t := range trails {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("trail %d: %w", t.ID, types.ErrDuplicateID)
		}
		c.byID[t.ID] = i
		c.trails[i] = normalize(t)
	}
	for _, r := range reviews {
		r.Rating = clamp(r.Rating, types.MinRating, types.MaxRating)
		c.reviews[r.TrailID] = append(c.reviews[r.TrailID], r)
	}
	for id := range c.reviews {
		sortReviews(c.reviews[id])
	}
	return c, nil
}

func normalize(t types.Trail) types.Trail {
	t.Rating = clamp(t.Rating, types.MinRating, types.MaxRating)
	t.Length = max(finite(t.Length), 0)
	t.Latitude = finite(t.Latitude)
	t.Longitude = finite(t.Longitude)
	t.Seasons = orEmpty(t.Seasons)
	t.Terrain = orEmpty(t.Terrain)
	t.Features = orEmpty(t.Features)
	t.Hazards = orEmpty(t.Hazards)
	t.NearbyTrails = orEmpty(t.NearbyTrails)
	t.Tags = orEmpty(t.Tags)
	return t
}

func clamp(v, lo, hi float64) float64 {
	return min(max(finite(v), lo), hi)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Len returns the number of trails.
func (c *Catalog) Len() int {
	return len(c.trails)
}

// Trails returns the collection in load order. The returned slice is a copy;
// the records themselves share their slice fields with the catalog and must
// not be modified.
func (c *Catalog) Trails() []types.Trail {
	return slices.Clone(c.trails)
}

// Get returns the trail with the given id.
// Returns ErrNotFound if no trail has that id.
func (c *Catalog) Get(id int) (types.Trail, error) {
	i, ok := c.byID[id]
	if !ok {
		return types.Trail{}, fmt.Errorf("trail %d: %w", id, types.ErrNotFound)
	}
	return c.trails[i], nil
}

// Has reports whether a trail with the given id exists.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}
