package service

import (
	"context"
	"testing"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (CartService, *MockProductRepository, *MockPromoValidator) {
	t.Helper()
	productRepo := new(MockProductRepository)
	validator := new(MockPromoValidator)
	svc := NewCartService(productRepo, validator, 10, 50, 10, zerolog.Nop())
	return svc, productRepo, validator
}

func TestCartService_Quote_Success(t *testing.T) {
	svc, productRepo, validator := newCartService(t)
	ctx := context.Background()

	p1 := model.Product{ID: uuid.New(), Title: "Keyboard", Price: 100, Stock: 10}
	p2 := model.Product{ID: uuid.New(), Title: "Mouse", Price: 50, Stock: 1}

	req := &model.CartQuoteRequest{
		Items: []model.CartLineRequest{
			{ProductID: p1.ID.String(), Quantity: 2},
			{ProductID: p2.ID.String(), Quantity: 3},
		},
		PaymentMethod: model.PaymentMethodCOD,
	}

	productRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return([]model.Product{p1, p2}, nil)

	quote, err := svc.Quote(ctx, req)

	require.NoError(t, err)
	require.Len(t, quote.Lines, 2)

	// Lines come back in request order.
	assert.Equal(t, p1.ID, quote.Lines[0].ProductID)
	assert.Equal(t, 200.0, quote.Lines[0].LineTotal)
	assert.True(t, quote.Lines[0].InStock)
	assert.Equal(t, p2.ID, quote.Lines[1].ProductID)
	assert.Equal(t, 150.0, quote.Lines[1].LineTotal)
	assert.False(t, quote.Lines[1].InStock, "3 requested with 1 in stock")

	assert.Equal(t, 350.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.PromoDiscount)
	assert.Equal(t, 35.0, quote.Tax)
	assert.Equal(t, 50.0, quote.CODCharges)
	assert.Equal(t, 435.0, quote.Total)

	validator.AssertNotCalled(t, "Validate")
}

func TestCartService_Quote_MergesDuplicateLines(t *testing.T) {
	svc, productRepo, _ := newCartService(t)
	ctx := context.Background()

	p := model.Product{ID: uuid.New(), Title: "Keyboard", Price: 100, Stock: 10}
	req := &model.CartQuoteRequest{
		Items: []model.CartLineRequest{
			{ProductID: p.ID.String(), Quantity: 1},
			{ProductID: p.ID.String(), Quantity: 2},
		},
	}

	productRepo.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return([]model.Product{p}, nil)

	quote, err := svc.Quote(ctx, req)

	require.NoError(t, err)
	require.Len(t, quote.Lines, 1)
	assert.Equal(t, 3, quote.Lines[0].Quantity)
	assert.Equal(t, 300.0, quote.Subtotal)
}

func TestCartService_Quote_WithPromo(t *testing.T) {
	svc, productRepo, validator := newCartService(t)
	ctx := context.Background()

	p := model.Product{ID: uuid.New(), Title: "Keyboard", Price: 100, Stock: 10}
	code := "SAVEBIG10"
	req := &model.CartQuoteRequest{
		Items:         []model.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentMethodCOD,
		PromoCode:     &code,
	}

	validator.On("Validate", ctx, code).Return(nil)
	productRepo.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return([]model.Product{p}, nil)

	quote, err := svc.Quote(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.Subtotal)
	assert.Equal(t, 10.0, quote.PromoDiscount)
	assert.Equal(t, 9.0, quote.Tax, "tax applies after the discount")
	assert.Equal(t, 50.0, quote.CODCharges)
	assert.Equal(t, 149.0, quote.Total)

	validator.AssertExpectations(t)
}

func TestCartService_Quote_InvalidPromo(t *testing.T) {
	svc, productRepo, validator := newCartService(t)
	ctx := context.Background()

	code := "BADCODE99"
	req := &model.CartQuoteRequest{
		Items:     []model.CartLineRequest{{ProductID: uuid.New().String(), Quantity: 1}},
		PromoCode: &code,
	}

	validator.On("Validate", ctx, code).Return(model.ErrInvalidPromoCode)

	quote, err := svc.Quote(ctx, req)

	assert.Equal(t, model.ErrInvalidPromoCode, err)
	assert.Nil(t, quote)
	productRepo.AssertNotCalled(t, "GetByIDs")
}

func TestCartService_Quote_ValidationFailures(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *model.CartQuoteRequest
		wantErr error
	}{
		{name: "empty cart", req: &model.CartQuoteRequest{}, wantErr: model.ErrInvalidQuantity},
		{
			name: "zero quantity",
			req: &model.CartQuoteRequest{
				Items: []model.CartLineRequest{{ProductID: uuid.New().String(), Quantity: 0}},
			},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name: "bad product id",
			req: &model.CartQuoteRequest{
				Items: []model.CartLineRequest{{ProductID: "nope", Quantity: 1}},
			},
			wantErr: model.ErrProductNotFound,
		},
		{
			name: "unsupported payment method",
			req: &model.CartQuoteRequest{
				Items:         []model.CartLineRequest{{ProductID: uuid.New().String(), Quantity: 1}},
				PaymentMethod: "card",
			},
			wantErr: model.ErrInvalidPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := svc.Quote(ctx, tt.req)
			assert.Equal(t, tt.wantErr, err)
			assert.Nil(t, quote)
		})
	}
}

func TestCartService_Quote_UnknownProduct(t *testing.T) {
	svc, productRepo, _ := newCartService(t)
	ctx := context.Background()

	req := &model.CartQuoteRequest{
		Items: []model.CartLineRequest{{ProductID: uuid.New().String(), Quantity: 1}},
	}

	productRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return([]model.Product{}, nil)

	quote, err := svc.Quote(ctx, req)

	assert.Equal(t, model.ErrProductNotFound, err)
	assert.Nil(t, quote)
}

func TestCartService_Quote_NoCODChargeWithoutCOD(t *testing.T) {
	svc, productRepo, _ := newCartService(t)
	ctx := context.Background()

	p := model.Product{ID: uuid.New(), Title: "Keyboard", Price: 100, Stock: 10}
	req := &model.CartQuoteRequest{
		Items: []model.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	}

	productRepo.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return([]model.Product{p}, nil)

	quote, err := svc.Quote(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.CODCharges)
	assert.Equal(t, 110.0, quote.Total)
}
