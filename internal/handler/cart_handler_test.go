package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Quote_Success(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	productID := uuid.New()
	quote := &model.CartQuote{
		Lines: []model.CartQuoteLine{
			{ProductID: productID, Title: "Mug", Quantity: 2, UnitPrice: 10, LineTotal: 20, InStock: true},
		},
		Subtotal:   20,
		Tax:        2,
		CODCharges: 50,
		Total:      72,
	}
	svc.On("Quote", mock.Anything, mock.AnythingOfType("*model.CartQuoteRequest")).Return(quote, nil)

	body, _ := json.Marshal(model.CartQuoteRequest{
		Items:         []model.CartLineRequest{{ProductID: productID.String(), Quantity: 2}},
		PaymentMethod: "cod",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", bytes.NewReader(body))
	rec := doRequest(h.Quote, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Contains(t, rec.Body.String(), `"total":72`)
	assert.Contains(t, rec.Body.String(), `"inStock":true`)
}

func TestCartHandler_Quote_InvalidPromo(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	svc.On("Quote", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidPromoCode)

	promo := "BOGUSCODE1"
	body, _ := json.Marshal(model.CartQuoteRequest{
		Items:     []model.CartLineRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		PromoCode: &promo,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", bytes.NewReader(body))
	rec := doRequest(h.Quote, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_Quote_BadJSON(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", strings.NewReader("{not json"))
	rec := doRequest(h.Quote, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Quote")
}

func TestCartHandler_Quote_UnknownProduct(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, zerolog.Nop())

	svc.On("Quote", mock.Anything, mock.Anything).Return(nil, model.ErrProductNotFound)

	body, _ := json.Marshal(model.CartQuoteRequest{
		Items: []model.CartLineRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/cart/quote", bytes.NewReader(body))
	rec := doRequest(h.Quote, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
