package types

import (
	"errors"
	"strings"
	"time"
)

// Difficulty is the grade of a trail. The data files carry the Chinese
// labels; the English names are accepted as aliases by ParseDifficulty.
type Difficulty string

// Difficulty grades.
const (
	DifficultyEasy     Difficulty = "簡單"
	DifficultyModerate Difficulty = "中等"
	DifficultyHard     Difficulty = "困難"
)

// Difficulties lists the grades from easiest to hardest.
var Difficulties = []Difficulty{
	DifficultyEasy,
	DifficultyModerate,
	DifficultyHard,
}

var difficultyAliases = map[string]Difficulty{
	"easy":     DifficultyEasy,
	"moderate": DifficultyModerate,
	"medium":   DifficultyModerate,
	"hard":     DifficultyHard,
}

// ErrInvalidDifficulty is returned when a value names no known grade.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ParseDifficulty accepts either the stored label or its English alias.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	if d, ok := difficultyAliases[strings.ToLower(s)]; ok {
		return d, nil
	}
	return "", ErrInvalidDifficulty
}

// Valid reports whether d is one of the stored grade labels.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// English returns the English name of the grade, or the raw label when the
// grade is unknown.
func (d Difficulty) English() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyModerate:
		return "moderate"
	case DifficultyHard:
		return "hard"
	default:
		return string(d)
	}
}

// Trail is a single hiking route. Records are read-only once the catalog
// has loaded them; slices may be shared between copies.
type Trail struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Length       float64    `json:"length" yaml:"length"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	Region       string     `json:"region" yaml:"region"`
	Description  string     `json:"description" yaml:"description"`
	Image        string     `json:"image" yaml:"image"`
	Rating       float64    `json:"rating" yaml:"rating"`
	Seasons      []string   `json:"seasons" yaml:"seasons"`
	Terrain      []string   `json:"terrain" yaml:"terrain"`
	Features     []string   `json:"features" yaml:"features"`
	Hazards      []string   `json:"hazards" yaml:"hazards"`
	Tips         string     `json:"tips" yaml:"tips"`
	NearbyTrails []string   `json:"nearbyTrails" yaml:"nearbyTrails"`
	LastUpdated  time.Time  `json:"lastUpdated" yaml:"lastUpdated"`
	Tags         []string   `json:"tags" yaml:"tags"`
	Latitude     float64    `json:"latitude" yaml:"latitude"`
	Longitude    float64    `json:"longitude" yaml:"longitude"`
}

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 5.0
)
