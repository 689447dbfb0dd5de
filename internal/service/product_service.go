package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves a paginated product listing.
func (s *productService) List(ctx context.Context, filter model.ProductFilter, page, limit int) (*model.ProductPage, error) {
	page, limit = normalizePage(page, limit)
	products, count, err := s.productRepo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &model.ProductPage{
		Products:   products,
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: model.TotalPages(count, limit),
	}, nil
}

// GetByID retrieves a single product.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Weight:      req.Weight,
		Stock:       req.Stock,
		Images:      req.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("title", product.Title).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("title", product.Title).Msg("product created")
	return product, nil
}

// Update replaces a product's fields. Stock is not written here; all stock
// movement goes through AdjustStock so concurrent orders are never clobbered
// by a stale read-modify-write.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	product.Title = strings.TrimSpace(req.Title)
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.Weight = req.Weight
	product.Images = req.Images
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return product, nil
}

// Delete removes a product from the catalogue.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// AdjustStock applies a direct stock edit through the same guarded primitive
// the order engine uses, so an admin decrement can never race an order into
// negative stock.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return model.ErrInvalidQuantity
	}
	if err := s.productRepo.AdjustStock(ctx, id, delta); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Int("delta", delta).Msg("stock adjustment rejected")
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Int("delta", delta).Msg("stock adjusted")
	return nil
}

func validateProductRequest(req *model.ProductRequest) error {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Product title is required")
	}
	if req.Price <= 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Product price must be positive")
	}
	if req.Stock < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Product stock cannot be negative")
	}
	return nil
}
