package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jinkyeom/sciencestop/internal/apperr"
	"github.com/jinkyeom/sciencestop/internal/video"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// errResponse is the body of every non-2xx answer.
type errResponse struct {
	Error string `json:"error" validate:"required" example:"not found"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps service errors onto status codes.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrNoCollection):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("collection not loaded"))
	case errors.Is(err, apperr.ErrInvalidRequest), errors.Is(err, video.ErrInvalidCommand):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
