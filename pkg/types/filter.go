package types

import (
	"errors"
	"slices"
	"strings"
)

// Category names a multi-valued filter dimension. Within a category the
// selected values are ORed; across categories the constraints are ANDed.
type Category string

// Filter categories.
const (
	CategoryDifficulty Category = "difficulty"
	CategoryRegion     Category = "region"
	CategorySeasons    Category = "seasons"
	CategoryTerrain    Category = "terrain"
	CategoryFeatures   Category = "features"
	CategoryTags       Category = "tags"
)

// Categories lists every multi-valued filter dimension.
var Categories = []Category{
	CategoryDifficulty,
	CategoryRegion,
	CategorySeasons,
	CategoryTerrain,
	CategoryFeatures,
	CategoryTags,
}

// ErrInvalidCategory is returned for an unknown filter category name.
var ErrInvalidCategory = errors.New("invalid filter category")

// ParseCategory resolves a category name. Singular forms are accepted.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "difficulty", "difficulties":
		return CategoryDifficulty, nil
	case "region", "regions":
		return CategoryRegion, nil
	case "season", "seasons":
		return CategorySeasons, nil
	case "terrain", "terrains":
		return CategoryTerrain, nil
	case "feature", "features":
		return CategoryFeatures, nil
	case "tag", "tags":
		return CategoryTags, nil
	default:
		return "", ErrInvalidCategory
	}
}

// DistanceRange is an inclusive bound on trail length in kilometers. The
// zero value imposes no constraint; Max <= 0 means no upper bound.
type DistanceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// IsZero reports whether the range imposes no constraint.
func (r DistanceRange) IsZero() bool {
	return r.Min <= 0 && r.Max <= 0
}

// Contains reports whether length lies within the range.
func (r DistanceRange) Contains(length float64) bool {
	if length < r.Min {
		return false
	}
	if r.Max > 0 && length > r.Max {
		return false
	}
	return true
}

// FilterState is the set of narrowing criteria a user has selected. The
// zero value selects everything.
type FilterState struct {
	Difficulty []Difficulty  `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Region     []string      `json:"region,omitempty" yaml:"region,omitempty"`
	Distance   DistanceRange `json:"distance" yaml:"distance"`
	Seasons    []string      `json:"seasons,omitempty" yaml:"seasons,omitempty"`
	Terrain    []string      `json:"terrain,omitempty" yaml:"terrain,omitempty"`
	Features   []string      `json:"features,omitempty" yaml:"features,omitempty"`
	MinRating  float64       `json:"minRating" yaml:"minRating"`
	Tags       []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Search     string        `json:"search,omitempty" yaml:"search,omitempty"`
}

// IsEmpty reports whether the state imposes no constraint at all.
func (f FilterState) IsEmpty() bool {
	return len(f.Difficulty) == 0 &&
		len(f.Region) == 0 &&
		f.Distance.IsZero() &&
		len(f.Seasons) == 0 &&
		len(f.Terrain) == 0 &&
		len(f.Features) == 0 &&
		f.MinRating <= 0 &&
		len(f.Tags) == 0 &&
		strings.TrimSpace(f.Search) == ""
}

// Clone returns a deep copy so that the result can be modified without
// touching f.
func (f FilterState) Clone() FilterState {
	out := f
	out.Difficulty = slices.Clone(f.Difficulty)
	out.Region = slices.Clone(f.Region)
	out.Seasons = slices.Clone(f.Seasons)
	out.Terrain = slices.Clone(f.Terrain)
	out.Features = slices.Clone(f.Features)
	out.Tags = slices.Clone(f.Tags)
	return out
}

// Values returns the selected values of a category as strings.
func (f FilterState) Values(c Category) []string {
	switch c {
	case CategoryDifficulty:
		out := make([]string, len(f.Difficulty))
		for i, d := range f.Difficulty {
			out[i] = string(d)
		}
		return out
	case CategoryRegion:
		return f.Region
	case CategorySeasons:
		return f.Seasons
	case CategoryTerrain:
		return f.Terrain
	case CategoryFeatures:
		return f.Features
	case CategoryTags:
		return f.Tags
	default:
		return nil
	}
}

// Toggle returns a copy of f with value added to category c when absent or
// removed when present. Difficulty values are normalized with
// ParseDifficulty.
func (f FilterState) Toggle(c Category, value string) (FilterState, error) {
	out := f.Clone()
	switch c {
	case CategoryDifficulty:
		d, err := ParseDifficulty(value)
		if err != nil {
			return f, err
		}
		out.Difficulty = toggle(out.Difficulty, d)
	case CategoryRegion:
		out.Region = toggle(out.Region, value)
	case CategorySeasons:
		out.Seasons = toggle(out.Seasons, value)
	case CategoryTerrain:
		out.Terrain = toggle(out.Terrain, value)
	case CategoryFeatures:
		out.Features = toggle(out.Features, value)
	case CategoryTags:
		out.Tags = toggle(out.Tags, value)
	default:
		return f, ErrInvalidCategory
	}
	return out, nil
}

func toggle[T comparable](values []T, v T) []T {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, v)
}
