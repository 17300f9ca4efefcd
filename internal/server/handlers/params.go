package handlers

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// StateFromQuery builds a browse state from listing query parameters.
// Multi-valued categories accept repeated keys or comma-separated values:
//
//	?difficulty=easy,hard&region=台北&min_rating=4&sort=length-asc&page=2
func StateFromQuery(q url.Values) (browse.State, error) {
	var actions []browse.Action

	for _, c := range types.Categories {
		seen := make(map[string]bool)
		for _, v := range splitValues(q[string(c)]) {
			if seen[v] {
				continue
			}
			seen[v] = true
			actions = append(actions, browse.Toggle(c, v))
		}
	}

	minDist, err := floatParam(q, "min_distance")
	if err != nil {
		return browse.State{}, err
	}
	maxDist, err := floatParam(q, "max_distance")
	if err != nil {
		return browse.State{}, err
	}
	if minDist != 0 || maxDist != 0 {
		actions = append(actions, browse.SetDistance(types.DistanceRange{Min: minDist, Max: maxDist}))
	}

	rating, err := floatParam(q, "min_rating")
	if err != nil {
		return browse.State{}, err
	}
	if rating != 0 {
		actions = append(actions, browse.SetMinRating(rating))
	}

	search := q.Get("search")
	if search == "" {
		search = q.Get("q")
	}
	if search != "" {
		actions = append(actions, browse.SetSearch(search))
	}

	if q.Has("sort") {
		actions = append(actions, browse.Action{Type: browse.ActionSetSort, Value: q.Get("sort")})
	}

	size, err := intParam(q, "page_size")
	if err != nil {
		return browse.State{}, err
	}
	if size != 0 {
		actions = append(actions, browse.SetPageSize(size))
	}
	page, err := intParam(q, "page")
	if err != nil {
		return browse.State{}, err
	}
	if page != 0 {
		actions = append(actions, browse.SetPage(page))
	}

	st := browse.NewState()
	for _, a := range actions {
		if st, err = browse.Reduce(st, a); err != nil {
			return browse.State{}, fmt.Errorf("%w: %w", errBadParam, err)
		}
	}
	return st, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return slices.Clip(out)
}

func floatParam(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", errBadParam, name)
	}
	return v, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadParam, name)
	}
	return v, nil
}
