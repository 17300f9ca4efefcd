// Package handlers implements the HTTP and WebSocket endpoints of the
// trail API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// errBadParam marks a request parameter that failed to parse.
var errBadParam = errors.New("bad request parameter")

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, code int, message string, err error) {
	if err != nil && code >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", code), zap.String("message", message), zap.Error(err))
	}
	response := map[string]string{"error": message}
	if err != nil && code < http.StatusInternalServerError {
		response["detail"] = err.Error()
	}
	respondWithJSON(w, code, response)
}

// trailID reads the {id} route parameter.
func trailID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errBadParam, errors.New("trail id must be an integer"))
	}
	return id, nil
}
