package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// TrailHandler serves the read-only catalog endpoints.
type TrailHandler struct {
	catalog *catalog.Holder
	favs    *favorites.Store
	logger  *zap.Logger
}

// NewTrailHandler creates a trail handler. favs may be nil, in which case no
// trail is marked as favorite.
func NewTrailHandler(h *catalog.Holder, favs *favorites.Store, logger *zap.Logger) *TrailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrailHandler{catalog: h, favs: favs, logger: logger}
}

func (h *TrailHandler) favoriteSet() browse.FavoriteSet {
	if h.favs == nil {
		return nil
	}
	return h.favs
}

// ListTrails returns one page of the filtered and sorted listing.
func (h *TrailHandler) ListTrails(w http.ResponseWriter, r *http.Request) {
	st, err := StateFromQuery(r.URL.Query())
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid listing parameters", err)
		return
	}
	respondWithJSON(w, http.StatusOK, browse.Project(h.catalog.Trails(), st, h.favoriteSet()))
}

// GetTrail returns a single trail by id.
func (h *TrailHandler) GetTrail(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid trail id", err)
		return
	}
	t, err := h.catalog.Load().Get(id)
	if err != nil {
		h.lookupError(w, err)
		return
	}
	fav := h.favs != nil && h.favs.Has(id)
	respondWithJSON(w, http.StatusOK, browse.Item{Trail: t, Favorite: fav})
}

// GetReviews returns the reviews of a trail, newest first.
func (h *TrailHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid trail id", err)
		return
	}
	summary, err := h.catalog.Load().Reviews(id)
	if err != nil {
		h.lookupError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// GetFacets returns the values each filter category can take.
func (h *TrailHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Load().Facets())
}

// GetFeatured returns the highest-rated trails. The count parameter
// defaults to catalog.DefaultFeatured.
func (h *TrailHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r.URL.Query(), "count")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid count", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.catalog.Load().Featured(n))
}

// GetStats returns aggregate figures over the whole catalog.
func (h *TrailHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Load().Stats())
}

// GetNearby returns trails near lat/lng, nearest first.
func (h *TrailHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("lat") || !q.Has("lng") {
		respondWithError(w, h.logger, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid latitude", err)
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid longitude", err)
		return
	}
	p := catalog.Point{Latitude: lat, Longitude: lng}
	if !p.Valid() {
		respondWithError(w, h.logger, http.StatusBadRequest, "coordinates out of range", nil)
		return
	}

	radius, err := floatParam(q, "radius")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid radius", err)
		return
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid limit", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.catalog.Load().Nearby(p, radius, limit))
}

func (h *TrailHandler) lookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, types.ErrNotFound) {
		respondWithError(w, h.logger, http.StatusNotFound, "trail not found", nil)
		return
	}
	respondWithError(w, h.logger, http.StatusInternalServerError, "failed to look up trail", err)
}
