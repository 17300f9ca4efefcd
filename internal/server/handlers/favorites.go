package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// FavoriteHandler serves the favorites endpoints.
type FavoriteHandler struct {
	catalog *catalog.Holder
	favs    *favorites.Store
	logger  *zap.Logger
}

// FavoriteList is the response of GET /favorites. Trails holds the
// favorites still present in the catalog, in id order.
type FavoriteList struct {
	IDs    []int         `json:"ids"`
	Trails []types.Trail `json:"trails"`
}

// FavoriteToggle is the response of POST /favorites/{id}/toggle.
type FavoriteToggle struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}

// NewFavoriteHandler creates a favorites handler.
func NewFavoriteHandler(h *catalog.Holder, favs *favorites.Store, logger *zap.Logger) *FavoriteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteHandler{catalog: h, favs: favs, logger: logger}
}

// ListFavorites returns the favorite ids and their trails.
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	if h.favs == nil {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, "favorites are not available", nil)
		return
	}
	ids := h.favs.List()
	c := h.catalog.Load()
	out := FavoriteList{IDs: ids, Trails: make([]types.Trail, 0, len(ids))}
	for _, id := range ids {
		if t, err := c.Get(id); err == nil {
			out.Trails = append(out.Trails, t)
		}
	}
	respondWithJSON(w, http.StatusOK, out)
}

// ToggleFavorite flips the favorite mark of a trail in the catalog.
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if h.favs == nil {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, "favorites are not available", nil)
		return
	}
	id, err := trailID(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "invalid trail id", err)
		return
	}
	if !h.catalog.Load().Has(id) {
		respondWithError(w, h.logger, http.StatusNotFound, "trail not found", nil)
		return
	}
	fav, err := h.favs.Toggle(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, "failed to save favorites", err)
		return
	}
	respondWithJSON(w, http.StatusOK, FavoriteToggle{ID: id, Favorite: fav})
}
