package promo

import (
	"context"

	"swiftcart/internal/model"
)

// disabledValidator rejects every code. Used when promo support is switched
// off so the cart service never has a nil validator.
type disabledValidator struct{}

// NewDisabledValidator returns a validator that treats all codes as invalid.
func NewDisabledValidator() Validator {
	return disabledValidator{}
}

func (disabledValidator) Validate(ctx context.Context, promoCode string) error {
	return model.ErrInvalidPromoCode
}

func (disabledValidator) Close() error { return nil }
