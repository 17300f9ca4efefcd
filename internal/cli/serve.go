package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/internal/server"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	var (
		host  string
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trail API and browse sockets over HTTP",
		Long: `Serve starts the HTTP API under /api/v1 and browsing sessions on /ws/browse.

With --watch (or watch: true in config.yaml) edits to the configured trail
files are reloaded without a restart.

Example:
  trailmap serve
  trailmap serve --port 9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch = watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port, 0 picks a free port (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload trail files when they change")
	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command, cfg server.Config) error {
	c, err := a.loadCatalog()
	if err != nil {
		return err
	}
	holder := catalog.NewHolder(c)

	pub := a.connectEvents()
	defer pub.Close()

	favs, store, err := a.openFavorites(ctx, favorites.WithPublisher(pub))
	if err != nil {
		return err
	}
	defer store.Close()

	var watcher *catalog.Watcher
	if a.cfg.Watch {
		watcher, err = catalog.NewWatcher(a.source(), holder, catalog.WithLogger(a.logger))
		switch {
		case errors.Is(err, catalog.ErrBundledSource):
			a.logger.Warn("watch ignored: no trails_file configured")
		case err != nil:
			return sysError(err)
		}
	}

	srv := server.New(cfg, holder, favs, a.logger)
	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return sysError(fmt.Errorf("listen on %s: %w", srv.Addr(), err))
	}
	a.logger.Info("serving trail API",
		zap.String("addr", ln.Addr().String()),
		zap.Int("trails", c.Len()),
		zap.String("backend", a.cfg.Backend))
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return sysError(err)
	}
	return nil
}
