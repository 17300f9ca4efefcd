package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// listOptions are the filter, sort and page flags of the list command.
type listOptions struct {
	difficulty    []string
	region        []string
	seasons       []string
	terrain       []string
	features      []string
	tags          []string
	minDistance   float64
	maxDistance   float64
	minRating     float64
	search        string
	sort          string
	page          int
	pageSize      int
	favoritesOnly bool
}

// actions turns the flags into browse actions, applied in order to a fresh
// state.
func (o listOptions) actions() []browse.Action {
	var out []browse.Action
	for _, c := range []struct {
		category types.Category
		values   []string
	}{
		{types.CategoryDifficulty, o.difficulty},
		{types.CategoryRegion, o.region},
		{types.CategorySeasons, o.seasons},
		{types.CategoryTerrain, o.terrain},
		{types.CategoryFeatures, o.features},
		{types.CategoryTags, o.tags},
	} {
		for _, v := range c.values {
			out = append(out, browse.Toggle(c.category, v))
		}
	}
	if o.minDistance != 0 || o.maxDistance != 0 {
		out = append(out, browse.SetDistance(types.DistanceRange{Min: o.minDistance, Max: o.maxDistance}))
	}
	if o.minRating != 0 {
		out = append(out, browse.SetMinRating(o.minRating))
	}
	if o.search != "" {
		out = append(out, browse.SetSearch(o.search))
	}
	if o.sort != "" {
		out = append(out, browse.SetSort(types.SortKey(o.sort)))
	}
	if o.pageSize != 0 {
		out = append(out, browse.SetPageSize(o.pageSize))
	}
	if o.page != 0 {
		out = append(out, browse.SetPage(o.page))
	}
	return out
}

func (o listOptions) state() (browse.State, error) {
	st := browse.NewState()
	for _, a := range o.actions() {
		var err error
		if st, err = browse.Reduce(st, a); err != nil {
			return browse.State{}, err
		}
	}
	return st, nil
}

func (a *app) newListCmd() *cobra.Command {
	var o listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trails",
		Long: `List shows one page of trails matching the filters.

Values within a filter match any; different filters must all match.
Difficulty accepts 簡單/中等/困難 or easy/moderate/hard.

Example:
  trailmap list
  trailmap list --difficulty easy --difficulty moderate --region 台北
  trailmap list --min-distance 5 --max-distance 15 --sort length-asc
  trailmap list --search 瀑布 --page 2
  trailmap list --favorites --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.state()
			if err != nil {
				return userError(err)
			}
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			favs, store, err := a.openFavorites(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			trails := c.Trails()
			if o.favoritesOnly {
				kept := trails[:0]
				for _, t := range trails {
					if favs.Has(t.ID) {
						kept = append(kept, t)
					}
				}
				trails = kept
			}

			v := browse.Project(trails, st, favs)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), v)
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&o.difficulty, "difficulty", nil, "difficulty to include (repeatable)")
	f.StringSliceVar(&o.region, "region", nil, "region to include (repeatable)")
	f.StringSliceVar(&o.seasons, "season", nil, "recommended season to include (repeatable)")
	f.StringSliceVar(&o.terrain, "terrain", nil, "terrain to include (repeatable)")
	f.StringSliceVar(&o.features, "feature", nil, "feature to include (repeatable)")
	f.StringSliceVar(&o.tags, "tag", nil, "tag to include (repeatable)")
	f.Float64Var(&o.minDistance, "min-distance", 0, "minimum length in km")
	f.Float64Var(&o.maxDistance, "max-distance", 0, "maximum length in km; 0 or less means no upper limit, so it cannot select only 0 km trails")
	f.Float64Var(&o.minRating, "min-rating", 0, "minimum rating (0-5)")
	f.StringVar(&o.search, "search", "", "case-insensitive text in name, description or tags")
	f.StringVar(&o.sort, "sort", "", "sort key: rating, length-asc, length-desc, updated")
	f.IntVar(&o.page, "page", 1, "page number")
	f.IntVar(&o.pageSize, "page-size", types.DefaultPageSize, fmt.Sprintf("trails per page (at most %d)", types.MaxPageSize))
	f.BoolVar(&o.favoritesOnly, "favorites", false, "only list favorite trails")
	return cmd
}
