package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"swiftcart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes an enveloped JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Envelope{
		Success:    status < 400,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// writeError writes an enveloped error response.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, message, nil)
}

// writeServiceError maps a service error onto an HTTP status. Domain errors
// carry their own codes; anything else is an internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound, model.ErrCodeUserNotFound:
		status = http.StatusNotFound
	case model.ErrCodeIllegalTransition:
		status = http.StatusConflict
	case model.ErrCodeNotOrderOwner:
		status = http.StatusForbidden
	}

	writeError(w, status, domainErr.Message, logger)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pagination reads page and limit query parameters, defaulting to 1 and 10.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
