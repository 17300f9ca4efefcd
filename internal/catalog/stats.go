package catalog

import "github.com/mesh-intelligence/trailmap/pkg/types"

// Stats summarizes a set of trails.
type Stats struct {
	Count         int                      `json:"count"`
	AverageRating float64                  `json:"average_rating"`
	TotalLength   float64                  `json:"total_length_km"`
	Regions       int                      `json:"regions"`
	ByDifficulty  map[types.Difficulty]int `json:"by_difficulty"`
}

// Stats summarizes the whole collection.
func (c *Catalog) Stats() Stats {
	return StatsOf(c.trails)
}

// StatsOf summarizes trails. An empty input yields zero averages.
func StatsOf(trails []types.Trail) Stats {
	s := Stats{
		Count:        len(trails),
		ByDifficulty: make(map[types.Difficulty]int),
	}
	regions := make(map[string]bool)
	var ratings float64
	for _, t := range trails {
		ratings += t.Rating
		s.TotalLength += t.Length
		s.ByDifficulty[t.Difficulty]++
		if t.Region != "" {
			regions[t.Region] = true
		}
	}
	s.Regions = len(regions)
	if len(trails) > 0 {
		s.AverageRating = ratings / float64(len(trails))
	}
	return s
}
