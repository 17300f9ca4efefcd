package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether p lies within the coordinate ranges.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// NearbyTrail is a trail annotated with its distance from a query point.
type NearbyTrail struct {
	types.Trail
	DistanceKm float64 `json:"distance_km"`
}

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180.0
	lon1 := a.Longitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	lon2 := b.Longitude * math.Pi / 180.0

	hSin := math.Sin((lat2 - lat1) / 2)
	hSin *= hSin
	vSin := math.Sin((lon2 - lon1) / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Nearby returns trails within radiusKm of p, nearest first. A non-positive
// radius means no distance limit and a non-positive limit returns every
// match. Trails without coordinates are skipped.
func (c *Catalog) Nearby(p Point, radiusKm float64, limit int) []NearbyTrail {
	out := make([]NearbyTrail, 0)
	for _, t := range c.trails {
		if t.Latitude == 0 && t.Longitude == 0 {
			continue
		}
		d := Distance(p, Point{Latitude: t.Latitude, Longitude: t.Longitude})
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		out = append(out, NearbyTrail{Trail: t, DistanceKm: d})
	}
	slices.SortStableFunc(out, func(a, b NearbyTrail) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
