package types

import "time"

// Review is a visitor's comment on a trail.
type Review struct {
	TrailID int       `json:"trailId" yaml:"trailId"`
	User    string    `json:"user" yaml:"user"`
	Rating  float64   `json:"rating" yaml:"rating"`
	Comment string    `json:"comment" yaml:"comment"`
	Date    time.Time `json:"date" yaml:"date"`
}

// ReviewSummary groups the reviews of one trail, newest first.
type ReviewSummary struct {
	TrailID       int      `json:"trail_id"`
	Count         int      `json:"count"`
	AverageRating float64  `json:"average_rating"`
	Reviews       []Review `json:"reviews"`
}
