package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"online-judge/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, err error) {
	respondWithJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusFromError maps domain errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrInvalidAnswerFormat),
		errors.Is(err, domain.ErrInvalidProblem),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongAdminSecret):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")
