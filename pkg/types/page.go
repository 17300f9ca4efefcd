package types

// DefaultPageSize is the number of trails shown per page when no size is
// configured.
const DefaultPageSize = 9

// MaxPageSize bounds the page size a client may request.
const MaxPageSize = 100

// Page is one slice of a filtered and sorted trail listing.
type Page struct {
	Items      []Trail `json:"items"`
	Number     int     `json:"page"`
	Size       int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// Empty reports whether the listing behind the page has no trails.
func (p Page) Empty() bool {
	return p.Total == 0
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}
