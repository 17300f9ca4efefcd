package browse

import (
	"github.com/mesh-intelligence/trailmap/internal/query"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Status distinguishes the states a listing can be shown in.
type Status string

// View statuses.
const (
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusLoading Status = "loading"
)

// FavoriteSet answers favorite membership. *favorites.Store satisfies it.
type FavoriteSet interface {
	Has(id int) bool
}

// Item is a trail as listed, with its favorite mark.
type Item struct {
	types.Trail
	Favorite bool `json:"favorite"`
}

// View is everything a front end needs to render one screen of the
// browser.
type View struct {
	Status      Status            `json:"status"`
	Items       []Item            `json:"items"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"total_pages"`
	Filter      types.FilterState `json:"filter"`
	Sort        types.SortKey     `json:"sort"`
	SearchInput string            `json:"search_input"`
}

// Project filters, sorts and paginates trails according to s and marks
// favorites. favs may be nil. While a search is pending the view shows the
// results of the last applied search with StatusLoading.
func Project(trails []types.Trail, s State, favs FavoriteSet) View {
	matched := query.Filter(trails, s.Filter)
	sorted := query.Sort(matched, s.Sort)
	page := query.Paginate(sorted, s.PageSize, s.Page)

	v := View{
		Items:       make([]Item, len(page.Items)),
		Page:        page.Number,
		PageSize:    page.Size,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		Filter:      s.Filter,
		Sort:        s.Sort,
		SearchInput: s.SearchInput,
	}
	for i, t := range page.Items {
		v.Items[i] = Item{Trail: t, Favorite: favs != nil && favs.Has(t.ID)}
	}

	switch {
	case s.SearchPending():
		v.Status = StatusLoading
	case page.Empty():
		v.Status = StatusEmpty
	default:
		v.Status = StatusReady
	}
	return v
}
