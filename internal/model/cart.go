package model

import "github.com/google/uuid"

// CartLineRequest is a client-held cart line. Only the product reference and
// quantity matter for quoting; any client-side price snapshot is ignored.
type CartLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartQuoteRequest asks for an authoritative quote over the given lines.
type CartQuoteRequest struct {
	Items         []CartLineRequest `json:"items"`
	PaymentMethod string            `json:"paymentMethod"`
	PromoCode     *string           `json:"promoCode,omitempty"`
}

// CartQuoteLine is one quoted line computed from live catalogue data.
type CartQuoteLine struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	LineTotal float64   `json:"lineTotal"`
	InStock   bool      `json:"inStock"`
}

// CartQuote is the derived cart summary. Nothing here is persisted; the order
// engine recomputes everything from live prices at placement time.
type CartQuote struct {
	Lines         []CartQuoteLine `json:"lines"`
	Subtotal      float64         `json:"subtotal"`
	PromoDiscount float64         `json:"promoDiscount"`
	Tax           float64         `json:"tax"`
	CODCharges    float64         `json:"codCharges"`
	Total         float64         `json:"total"`
}
