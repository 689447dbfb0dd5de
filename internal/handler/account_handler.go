package handler

import (
	"net/http"

	"swiftcart/internal/auth"
	"swiftcart/internal/service"

	"github.com/rs/zerolog"
)

// AccountHandler handles the account-side notification flows.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("handler", "account").Logger(),
	}
}

// RequestEmailVerification handles POST /api/account/request-verification.
func (h *AccountHandler) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", h.logger)
		return
	}

	if err := h.service.RequestEmailVerification(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, "Verification email queued", nil)
}
