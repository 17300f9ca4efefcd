package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Filter returns the trails that satisfy every active criterion of f, in
// input order. A zero FilterState returns a copy of the whole collection.
func Filter(trails []types.Trail, f types.FilterState) []types.Trail {
	m := newMatcher(f)
	out := make([]types.Trail, 0, len(trails))
	for _, t := range trails {
		if m.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether a single trail satisfies f.
func Match(t types.Trail, f types.FilterState) bool {
	return newMatcher(f).match(t)
}

// matcher holds the per-call normalized form of a FilterState so that the
// search term is folded once per Filter call rather than once per trail.
type matcher struct {
	f    types.FilterState
	term string
	fold cases.Caser
}

func newMatcher(f types.FilterState) matcher {
	fold := cases.Fold()
	return matcher{
		f:    f,
		term: fold.String(strings.TrimSpace(f.Search)),
		fold: fold,
	}
}

func (m matcher) match(t types.Trail) bool {
	f := m.f
	if len(f.Difficulty) > 0 && !slices.Contains(f.Difficulty, t.Difficulty) {
		return false
	}
	if len(f.Region) > 0 && !slices.Contains(f.Region, t.Region) {
		return false
	}
	if !f.Distance.Contains(t.Length) {
		return false
	}
	if !anyOf(f.Seasons, t.Seasons) {
		return false
	}
	if t.Rating < f.MinRating {
		return false
	}
	if !anyOf(f.Terrain, t.Terrain) {
		return false
	}
	if !anyOf(f.Features, t.Features) {
		return false
	}
	if !anyOf(f.Tags, t.Tags) {
		return false
	}
	return m.matchSearch(t)
}

// anyOf reports whether have contains at least one selected value. An empty
// selection matches everything.
func anyOf(selected, have []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if slices.Contains(have, s) {
			return true
		}
	}
	return false
}

func (m matcher) matchSearch(t types.Trail) bool {
	if m.term == "" {
		return true
	}
	if m.contains(t.Name) || m.contains(t.Description) {
		return true
	}
	for _, tag := range t.Tags {
		if m.contains(tag) {
			return true
		}
	}
	return false
}

func (m matcher) contains(s string) bool {
	return strings.Contains(m.fold.String(s), m.term)
}
