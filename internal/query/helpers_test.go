package query

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

var (
	regions  = []string{"台北", "新北", "台中", "花蓮"}
	seasons  = []string{"春", "夏", "秋", "冬"}
	terrains = []string{"森林", "溪谷", "稜線"}
	features = []string{"瀑布", "古道", "步道", "觀景台"}
	tagPool  = []string{"親子", "賞楓", "登山", "健行"}
)

// makeTrails builds n deterministic trails with varied attributes. Names
// repeat every ten trails so that tie-breaking by name and id is exercised.
func makeTrails(n int) []types.Trail {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.Trail, n)
	for i := range n {
		out[i] = types.Trail{
			ID:          i + 1,
			Name:        fmt.Sprintf("步道%02d", (i*7)%10),
			Length:      float64((i*3)%15) + 0.5,
			Difficulty:  types.Difficulties[i%3],
			Region:      regions[i%len(regions)],
			Description: fmt.Sprintf("第%d條路線", i+1),
			Rating:      float64(i%6) * 0.9,
			Seasons:     []string{seasons[i%4], seasons[(i+1)%4]},
			Terrain:     []string{terrains[i%3]},
			Features:    []string{features[i%4]},
			Tags:        []string{tagPool[(i*5)%4]},
			LastUpdated: base.AddDate(0, 0, (i*11)%30),
		}
	}
	return out
}

func ids(trails []types.Trail) []int {
	out := make([]int, len(trails))
	for i, t := range trails {
		out[i] = t.ID
	}
	return out
}
