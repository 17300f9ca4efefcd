package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func parseTrailID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid trail id %q", s))
	}
	return id, nil
}

func lookupError(id int, err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return userError(fmt.Errorf("trail %d: %w", id, err))
	}
	return sysError(err)
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one trail in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrailID(args[0])
			if err != nil {
				return err
			}
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			t, err := c.Get(id)
			if err != nil {
				return lookupError(id, err)
			}
			favs, store, err := a.openFavorites(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			item := browse.Item{Trail: t, Favorite: favs.Has(id)}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			printTrail(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func printTrail(w io.Writer, it browse.Item) {
	star := ""
	if it.Favorite {
		star = " *"
	}
	fmt.Fprintf(w, "%s%s\n", it.Name, star)
	fmt.Fprintf(w, "ID:          %d\n", it.ID)
	fmt.Fprintf(w, "Region:      %s\n", it.Region)
	fmt.Fprintf(w, "Difficulty:  %s (%s)\n", it.Difficulty, it.Difficulty.English())
	fmt.Fprintf(w, "Length:      %.1f km\n", it.Length)
	fmt.Fprintf(w, "Rating:      %.1f\n", it.Rating)
	if !it.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Updated:     %s\n", it.LastUpdated.Format("2006-01-02"))
	}
	for _, f := range []struct {
		label  string
		values []string
	}{
		{"Seasons", it.Seasons},
		{"Terrain", it.Terrain},
		{"Features", it.Features},
		{"Hazards", it.Hazards},
		{"Tags", it.Tags},
		{"Nearby", it.NearbyTrails},
	} {
		if len(f.values) > 0 {
			fmt.Fprintf(w, "%-12s %s\n", f.label+":", strings.Join(f.values, ", "))
		}
	}
	if it.Description != "" {
		fmt.Fprintf(w, "\n%s\n", it.Description)
	}
	if it.Tips != "" {
		fmt.Fprintf(w, "\nTips: %s\n", it.Tips)
	}
}

func (a *app) newReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <id>",
		Short: "Show visitor reviews of a trail, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrailID(args[0])
			if err != nil {
				return err
			}
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s, err := c.Reviews(id)
			if err != nil {
				return lookupError(id, err)
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, s)
			}
			if s.Count == 0 {
				fmt.Fprintln(out, "No reviews yet.")
				return nil
			}
			rows := make([][]string, len(s.Reviews))
			for i, r := range s.Reviews {
				rows[i] = []string{r.Date.Format("2006-01-02"), r.User, fmt.Sprintf("%.0f", r.Rating), truncate(r.Comment, 40)}
			}
			printTable(out, []string{"DATE", "USER", "RATING", "COMMENT"}, rows)
			fmt.Fprintf(out, "Total: %d review(s), average %.1f\n", s.Count, s.AverageRating)
			return nil
		},
	}
}
