package types

import (
	"errors"
	"strings"
)

// SortKey selects the ordering of a trail listing.
type SortKey string

// Sort keys. Every key breaks ties by name ascending.
const (
	SortRating     SortKey = "rating"
	SortLengthAsc  SortKey = "length-asc"
	SortLengthDesc SortKey = "length-desc"
	SortUpdated    SortKey = "updated"
)

// SortKeys lists the supported sort keys.
var SortKeys = []SortKey{
	SortRating,
	SortLengthAsc,
	SortLengthDesc,
	SortUpdated,
}

// ErrInvalidSortKey is returned for an unknown sort key.
var ErrInvalidSortKey = errors.New("invalid sort key")

// ParseSortKey resolves a sort key name. The empty string selects
// SortRating.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortRating, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrInvalidSortKey
}
