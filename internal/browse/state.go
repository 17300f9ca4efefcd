// Package browse is the presentation contract of the trail browser. State
// holds what the user has selected, Reduce applies user actions to it
// without side effects, Project turns a State into the page of trails to
// show, and Session wires these to favorites and debounced search for
// concurrent front ends.
package browse

import (
	"errors"
	"math"
	"strings"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// State is the user's current browsing selection. Values are immutable in
// practice: Reduce never modifies its input.
type State struct {
	Filter   types.FilterState `json:"filter"`
	Sort     types.SortKey     `json:"sort"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	// SearchInput is the raw text in the search box. It differs from
	// Filter.Search while a debounced search is pending.
	SearchInput string `json:"search_input"`
}

// NewState returns the state of a fresh session: no filters, sorted by
// rating, first page.
func NewState() State {
	return State{
		Sort:     types.SortRating,
		Page:     1,
		PageSize: types.DefaultPageSize,
	}
}

// SearchPending reports whether typed search text has not been applied yet.
func (s State) SearchPending() bool {
	return s.SearchInput != s.Filter.Search
}

// ActionType names a user action.
type ActionType string

// Action types.
const (
	ActionToggle         ActionType = "toggle"
	ActionSetDistance    ActionType = "set_distance"
	ActionSetMinRating   ActionType = "set_min_rating"
	ActionTypeSearch     ActionType = "type_search"
	ActionSetSearch      ActionType = "set_search"
	ActionSetSort        ActionType = "set_sort"
	ActionSetPage        ActionType = "set_page"
	ActionSetPageSize    ActionType = "set_page_size"
	ActionClear          ActionType = "clear"
	ActionToggleFavorite ActionType = "toggle_favorite"
)

// Action is a single user intent. Only the fields relevant to Type are
// read.
type Action struct {
	Type      ActionType          `json:"type"`
	Category  types.Category      `json:"category,omitempty"`
	Value     string              `json:"value,omitempty"`
	Distance  types.DistanceRange `json:"distance,omitempty"`
	MinRating float64             `json:"min_rating,omitempty"`
	Page      int                 `json:"page,omitempty"`
	TrailID   int                 `json:"trail_id,omitempty"`
}

// Action constructors.

func Toggle(c types.Category, value string) Action {
	return Action{Type: ActionToggle, Category: c, Value: value}
}

func SetDistance(r types.DistanceRange) Action {
	return Action{Type: ActionSetDistance, Distance: r}
}

func SetMinRating(r float64) Action {
	return Action{Type: ActionSetMinRating, MinRating: r}
}

// TypeSearch records search box text without applying it.
func TypeSearch(text string) Action {
	return Action{Type: ActionTypeSearch, Value: text}
}

// SetSearch applies a search term to the filter.
func SetSearch(term string) Action {
	return Action{Type: ActionSetSearch, Value: term}
}

func SetSort(key types.SortKey) Action {
	return Action{Type: ActionSetSort, Value: string(key)}
}

func SetPage(n int) Action {
	return Action{Type: ActionSetPage, Page: n}
}

func SetPageSize(n int) Action {
	return Action{Type: ActionSetPageSize, Page: n}
}

func Clear() Action {
	return Action{Type: ActionClear}
}

func ToggleFavorite(id int) Action {
	return Action{Type: ActionToggleFavorite, TrailID: id}
}

// Reducer errors.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotReducible  = errors.New("action has side effects and is handled by Session")
)

// Reduce returns the state that results from applying a to s. Actions that
// change the filter reset the page to 1. On error s is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	next := s
	next.Filter = s.Filter.Clone()

	switch a.Type {
	case ActionToggle:
		f, err := s.Filter.Toggle(a.Category, a.Value)
		if err != nil {
			return s, err
		}
		next.Filter = f
		next.Page = 1
	case ActionSetDistance:
		next.Filter.Distance = types.DistanceRange{
			Min: max(finite(a.Distance.Min), 0),
			Max: max(finite(a.Distance.Max), 0),
		}
		next.Page = 1
	case ActionSetMinRating:
		next.Filter.MinRating = min(max(finite(a.MinRating), types.MinRating), types.MaxRating)
		next.Page = 1
	case ActionTypeSearch:
		next.SearchInput = a.Value
	case ActionSetSearch:
		next.Filter.Search = a.Value
		next.SearchInput = a.Value
		next.Page = 1
	case ActionSetSort:
		key, err := types.ParseSortKey(a.Value)
		if err != nil {
			return s, err
		}
		next.Sort = key
	case ActionSetPage:
		next.Page = max(a.Page, 1)
	case ActionSetPageSize:
		next.PageSize = min(a.Page, types.MaxPageSize)
		if next.PageSize <= 0 {
			next.PageSize = types.DefaultPageSize
		}
		next.Page = 1
	case ActionClear:
		next.Filter = types.FilterState{}
		next.SearchInput = ""
		next.Page = 1
	case ActionToggleFavorite:
		return s, ErrNotReducible
	default:
		return s, ErrUnknownAction
	}
	return next, nil
}

// finite maps NaN and the infinities to zero, which for distances and
// ratings means no constraint.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseActionType resolves an action name, accepting dashes for
// underscores.
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch t {
	case ActionToggle, ActionSetDistance, ActionSetMinRating, ActionTypeSearch,
		ActionSetSearch, ActionSetSort, ActionSetPage, ActionSetPageSize,
		ActionClear, ActionToggleFavorite:
		return t, nil
	}
	return "", ErrUnknownAction
}
