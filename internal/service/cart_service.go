package service

import (
	"context"
	"fmt"

	"swiftcart/internal/model"
	"swiftcart/internal/promo"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	productRepo repository.ProductRepository
	validator   promo.Validator
	taxRate     float64
	codCharge   float64
	promoRate   float64
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	productRepo repository.ProductRepository,
	validator promo.Validator,
	taxRate, codCharge, promoRate float64,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		productRepo: productRepo,
		validator:   validator,
		taxRate:     taxRate,
		codCharge:   codCharge,
		promoRate:   promoRate,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Quote prices the requested lines from the live catalogue. Client-supplied
// prices are never trusted; the quote is recomputed on every call and nothing
// is reserved.
func (s *cartService) Quote(ctx context.Context, req *model.CartQuoteRequest) (*model.CartQuote, error) {
	lines, order, err := s.validateQuoteRequest(req)
	if err != nil {
		return nil, err
	}

	promoApplied := false
	if req.PromoCode != nil && *req.PromoCode != "" {
		if err := s.validator.Validate(ctx, *req.PromoCode); err != nil {
			s.logger.Warn().Str("promo_code", *req.PromoCode).Err(err).Msg("invalid promo code")
			return nil, err
		}
		promoApplied = true
		s.logger.Debug().Str("promo_code", *req.PromoCode).Msg("promo code validated")
	}

	products, err := s.productRepo.GetByIDs(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(order)).Msg("failed to load products")
		return nil, fmt.Errorf("failed to quote cart: %w", err)
	}
	if len(products) != len(order) {
		return nil, model.ErrProductNotFound
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	quote := &model.CartQuote{Lines: make([]model.CartQuoteLine, 0, len(order))}
	for _, id := range order {
		p := byID[id]
		lineTotal := roundCents(p.Price * float64(lines[id]))
		quote.Lines = append(quote.Lines, model.CartQuoteLine{
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  lines[id],
			UnitPrice: p.Price,
			LineTotal: lineTotal,
			InStock:   p.Stock >= lines[id],
		})
		quote.Subtotal += lineTotal
	}
	quote.Subtotal = roundCents(quote.Subtotal)

	if promoApplied {
		quote.PromoDiscount = roundCents(quote.Subtotal * s.promoRate / 100)
	}
	quote.Tax = roundCents((quote.Subtotal - quote.PromoDiscount) * s.taxRate / 100)
	if req.PaymentMethod == model.PaymentMethodCOD {
		quote.CODCharges = s.codCharge
	}
	quote.Total = roundCents(quote.Subtotal - quote.PromoDiscount + quote.Tax + quote.CODCharges)

	return quote, nil
}

// validateQuoteRequest collapses duplicate lines and preserves first-seen
// product order so quote lines come back in request order.
func (s *cartService) validateQuoteRequest(req *model.CartQuoteRequest) (map[uuid.UUID]int, []uuid.UUID, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, nil, model.ErrInvalidQuantity
	}
	if req.PaymentMethod != "" && req.PaymentMethod != model.PaymentMethodCOD {
		return nil, nil, model.ErrInvalidPayment
	}

	lines := make(map[uuid.UUID]int, len(req.Items))
	order := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, nil, model.ErrInvalidQuantity
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, nil, model.ErrProductNotFound
		}
		if _, seen := lines[id]; !seen {
			order = append(order, id)
		}
		lines[id] += item.Quantity
	}
	return lines, order, nil
}
