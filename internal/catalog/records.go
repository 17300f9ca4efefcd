package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// trailRecord is the on-disk shape of a trail. Optional fields use lenient
// types so that nulls, numbers written as strings, and scalars in place of
// lists decode to sensible values instead of failing the whole file.
type trailRecord struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Length       number     `json:"length" yaml:"length"`
	Difficulty   string     `json:"difficulty" yaml:"difficulty"`
	Region       string     `json:"region" yaml:"region"`
	Description  string     `json:"description" yaml:"description"`
	Image        string     `json:"image" yaml:"image"`
	Rating       number     `json:"rating" yaml:"rating"`
	Seasons      stringList `json:"seasons" yaml:"seasons"`
	Terrain      stringList `json:"terrain" yaml:"terrain"`
	Features     stringList `json:"features" yaml:"features"`
	Hazards      stringList `json:"hazards" yaml:"hazards"`
	Tips         string     `json:"tips" yaml:"tips"`
	NearbyTrails stringList `json:"nearbyTrails" yaml:"nearbyTrails"`
	LastUpdated  string     `json:"lastUpdated" yaml:"lastUpdated"`
	Tags         stringList `json:"tags" yaml:"tags"`
	Latitude     number     `json:"latitude" yaml:"latitude"`
	Longitude    number     `json:"longitude" yaml:"longitude"`
}

func (r trailRecord) trail() types.Trail {
	d := types.Difficulty(strings.TrimSpace(r.Difficulty))
	if parsed, err := types.ParseDifficulty(r.Difficulty); err == nil {
		d = parsed
	}
	return types.Trail{
		ID:           r.ID,
		Name:         r.Name,
		Length:       float64(r.Length),
		Difficulty:   d,
		Region:       r.Region,
		Description:  r.Description,
		Image:        r.Image,
		Rating:       float64(r.Rating),
		Seasons:      r.Seasons,
		Terrain:      r.Terrain,
		Features:     r.Features,
		Hazards:      r.Hazards,
		Tips:         r.Tips,
		NearbyTrails: r.NearbyTrails,
		LastUpdated:  parseDate(r.LastUpdated),
		Tags:         r.Tags,
		Latitude:     float64(r.Latitude),
		Longitude:    float64(r.Longitude),
	}
}

type reviewRecord struct {
	TrailID int    `json:"trailId" yaml:"trailId"`
	User    string `json:"user" yaml:"user"`
	Rating  number `json:"rating" yaml:"rating"`
	Comment string `json:"comment" yaml:"comment"`
	Date    string `json:"date" yaml:"date"`
}

func (r reviewRecord) review() types.Review {
	return types.Review{
		TrailID: r.TrailID,
		User:    r.User,
		Rating:  float64(r.Rating),
		Comment: r.Comment,
		Date:    parseDate(r.Date),
	}
}

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate returns the zero time for blank or unrecognized values.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// number accepts a JSON or YAML number, a numeric string, or null.
// Anything else, including NaN and the infinities, decodes as zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = number(parseFloat(s))
		return nil
	}
	*n = 0
	return nil
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	var f float64
	if err := node.Decode(&f); err == nil {
		*n = number(finite(f))
		return nil
	}
	if node.Kind == yaml.ScalarNode {
		*n = number(parseFloat(node.Value))
		return nil
	}
	*n = 0
	return nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// finite maps NaN and the infinities to zero.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// stringList accepts a list of strings, a single string, or null.
// Anything else decodes as an empty list.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil && strings.TrimSpace(one) != "" {
		*l = []string{one}
		return nil
	}
	*l = nil
	return nil
}

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err == nil {
			*l = many
			return nil
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" && strings.TrimSpace(node.Value) != "" {
			*l = []string{node.Value}
			return nil
		}
	}
	*l = nil
	return nil
}
