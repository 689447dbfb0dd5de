package handler

import (
	"net/http"

	"swiftcart/internal/model"
	"swiftcart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart quoting.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Quote handles POST /api/cart/quote.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.CartQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Cart quoted successfully", quote)
}
