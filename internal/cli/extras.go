package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func (a *app) newFacetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the values each filter can take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			f := c.Facets()
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, f)
			}
			for _, cat := range types.Categories {
				fmt.Fprintf(out, "%-11s %s\n", cat+":", strings.Join(f.Values(cat), ", "))
			}
			return nil
		},
	}
}

func (a *app) newFeaturedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List the highest-rated trails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			trails := c.Featured(count)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), trails)
			}
			printTrails(cmd.OutOrStdout(), trails, nil)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", catalog.DefaultFeatured, "number of trails")
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the trail collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s := c.Stats()
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, s)
			}
			fmt.Fprintf(out, "Trails:          %d\n", s.Count)
			fmt.Fprintf(out, "Regions:         %d\n", s.Regions)
			fmt.Fprintf(out, "Total length:    %.1f km\n", s.TotalLength)
			fmt.Fprintf(out, "Average rating:  %.2f\n", s.AverageRating)
			for _, d := range types.Difficulties {
				fmt.Fprintf(out, "  %s (%s): %d\n", d, d.English(), s.ByDifficulty[d])
			}
			return nil
		},
	}
}

func (a *app) newNearbyCmd() *cobra.Command {
	var (
		lat, lng, radius float64
		limit            int
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List trails near a coordinate, nearest first",
		Long: `Nearby lists trails by great-circle distance from --lat/--lng.

Example:
  trailmap nearby --lat 25.03 --lng 121.57 --radius 10
  trailmap nearby --lat 24.18 --lng 120.74 --limit 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return userError(errors.New("--lat and --lng are required"))
			}
			p := catalog.Point{Latitude: lat, Longitude: lng}
			if !p.Valid() {
				return userError(fmt.Errorf("coordinates out of range: %v, %v", lat, lng))
			}
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			near := c.Nearby(p, radius, limit)
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, near)
			}
			if len(near) == 0 {
				fmt.Fprintln(out, "No trails found.")
				return nil
			}
			rows := make([][]string, len(near))
			for i, n := range near {
				rows[i] = []string{fmt.Sprint(n.ID), truncate(n.Name, 24), n.Region, fmt.Sprintf("%.2f", n.DistanceKm)}
			}
			printTable(out, []string{"ID", "NAME", "REGION", "DISTANCE_KM"}, rows)
			fmt.Fprintf(out, "Total: %d trail(s)\n", len(near))
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&radius, "radius", 0, "search radius in km (0 = no limit)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of trails (0 = no limit)")
	return cmd
}
