package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/events"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func (a *app) newFavoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorite",
		Aliases: []string{"fav"},
		Short:   "Manage favorite trails",
	}
	cmd.AddCommand(a.newFavoriteToggleCmd())
	cmd.AddCommand(a.newFavoriteListCmd())
	return cmd
}

func (a *app) newFavoriteToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark or unmark a trail as favorite",
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
			if !c.Has(id) {
				return userError(fmt.Errorf("trail %d: %w", id, types.ErrNotFound))
			}

			pub := a.connectEvents()
			defer pub.Close()

			favs, store, err := a.openFavorites(cmd.Context(), favorites.WithPublisher(pub))
			if err != nil {
				return err
			}
			defer store.Close()

			on, err := favs.Toggle(cmd.Context(), id)
			if err != nil {
				return sysError(fmt.Errorf("toggle favorite: %w", err))
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, map[string]any{"id": id, "favorite": on})
			}
			t, _ := c.Get(id)
			if on {
				fmt.Fprintf(out, "Added %s (%d) to favorites\n", t.Name, id)
			} else {
				fmt.Fprintf(out, "Removed %s (%d) from favorites\n", t.Name, id)
			}
			return nil
		},
	}
}

func (a *app) newFavoriteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorite trails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog()
			if err != nil {
				return err
			}
			favs, store, err := a.openFavorites(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			ids := favs.List()
			trails := make([]types.Trail, 0, len(ids))
			for _, id := range ids {
				if t, err := c.Get(id); err == nil {
					trails = append(trails, t)
				}
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, map[string]any{"ids": ids, "trails": trails})
			}
			printTrails(out, trails, favs)
			return nil
		},
	}
}

// connectEvents returns the favorite event publisher. Without a configured
// NATS url, or when the server cannot be reached, events are dropped.
func (a *app) connectEvents() events.Publisher {
	if a.cfg.NATS.URL == "" {
		return events.Nop{}
	}
	pub, err := events.ConnectNATS(a.cfg.NATS.URL, events.DefaultNATSOptions(), a.logger)
	if err != nil {
		a.logger.Warn("favorite events disabled", zap.String("url", a.cfg.NATS.URL), zap.Error(err))
		return events.Nop{}
	}
	return pub
}
