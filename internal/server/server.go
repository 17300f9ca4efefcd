// Package server wires the trail API handlers into an HTTP server.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/internal/server/handlers"
)

// Config holds the listener and CORS settings.
type Config struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         int           `mapstructure:"port" yaml:"port"`
	CorsOrigins  []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// SearchDelay is the debounce delay of browse socket search input.
	SearchDelay time.Duration `mapstructure:"search_delay" yaml:"search_delay"`
}

// DefaultConfig returns the settings used when the configuration file
// leaves them out.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		CorsOrigins:  []string{"*"},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		SearchDelay:  300 * time.Millisecond,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *chi.Mux
	cancel context.CancelFunc
}

// New creates the HTTP server. favs may be nil, in which case the favorites
// endpoints answer 503.
func New(cfg Config, h *catalog.Holder, favs *favorites.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	trailHandler := handlers.NewTrailHandler(h, favs, logger)
	favoriteHandler := handlers.NewFavoriteHandler(h, favs, logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/trails", func(r chi.Router) {
				r.Get("/", trailHandler.ListTrails)
				r.Get("/{id}", trailHandler.GetTrail)
				r.Get("/{id}/reviews", trailHandler.GetReviews)
			})
			r.Get("/facets", trailHandler.GetFacets)
			r.Get("/featured", trailHandler.GetFeatured)
			r.Get("/stats", trailHandler.GetStats)
			r.Get("/nearby", trailHandler.GetNearby)

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoriteHandler.ListFavorites)
				r.Post("/{id}/toggle", favoriteHandler.ToggleFavorite)
			})
		})
	})

	// Sockets stay outside the request timeout.
	socketCfg := handlers.DefaultSocketConfig()
	if cfg.SearchDelay > 0 {
		socketCfg.SearchDelay = cfg.SearchDelay
	}
	router.Get("/ws/browse", handlers.BrowseSocketHandler(h, favs, socketCfg, logger))

	// Hijacked socket connections are not closed by Shutdown, so they watch
	// a base context that Shutdown cancels.
	base, cancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return base },
	}

	return &Server{
		server: httpServer,
		router: router,
		cancel: cancel,
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Shutdown gracefully shuts down the HTTP server and ends open browse
// sockets.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.server.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
