package catalog

import (
	"strings"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Facets lists the distinct values present in the collection for each
// filter category, in first-seen order. Blank values are dropped.
type Facets struct {
	Difficulties []types.Difficulty `json:"difficulties"`
	Regions      []string           `json:"regions"`
	Seasons      []string           `json:"seasons"`
	Terrain      []string           `json:"terrain"`
	Features     []string           `json:"features"`
	Tags         []string           `json:"tags"`
}

// Values returns the facet values of a category as strings.
func (f Facets) Values(c types.Category) []string {
	switch c {
	case types.CategoryDifficulty:
		out := make([]string, len(f.Difficulties))
		for i, d := range f.Difficulties {
			out[i] = string(d)
		}
		return out
	case types.CategoryRegion:
		return f.Regions
	case types.CategorySeasons:
		return f.Seasons
	case types.CategoryTerrain:
		return f.Terrain
	case types.CategoryFeatures:
		return f.Features
	case types.CategoryTags:
		return f.Tags
	default:
		return nil
	}
}

// Facets collects the filter options offered by the collection.
func (c *Catalog) Facets() Facets {
	return FacetsOf(c.trails)
}

// FacetsOf collects the filter options offered by trails.
func FacetsOf(trails []types.Trail) Facets {
	var (
		difficulty = newDistinct()
		region     = newDistinct()
		season     = newDistinct()
		terrain    = newDistinct()
		feature    = newDistinct()
		tag        = newDistinct()
	)
	for _, t := range trails {
		difficulty.add(string(t.Difficulty))
		region.add(t.Region)
		season.add(t.Seasons...)
		terrain.add(t.Terrain...)
		feature.add(t.Features...)
		tag.add(t.Tags...)
	}

	f := Facets{
		Difficulties: make([]types.Difficulty, len(difficulty.values)),
		Regions:      orEmpty(region.values),
		Seasons:      orEmpty(season.values),
		Terrain:      orEmpty(terrain.values),
		Features:     orEmpty(feature.values),
		Tags:         orEmpty(tag.values),
	}
	for i, v := range difficulty.values {
		f.Difficulties[i] = types.Difficulty(v)
	}
	return f
}

// distinct accumulates unique non-blank strings in insertion order.
type distinct struct {
	seen   map[string]bool
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]bool)}
}

func (d *distinct) add(vs ...string) {
	for _, v := range vs {
		if strings.TrimSpace(v) == "" || d.seen[v] {
			continue
		}
		d.seen[v] = true
		d.values = append(d.values, v)
	}
}
