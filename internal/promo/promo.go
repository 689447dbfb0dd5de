package promo

import (
	"context"
)

// Validator checks promo codes presented at cart quoting time.
type Validator interface {
	// Validate checks whether a promo code is redeemable. A redeemable code
	// is 8 to 10 characters long and appears in enough of the loaded promo
	// files to meet the configured match threshold.
	Validate(ctx context.Context, promoCode string) error

	// Close releases resources held by the validator.
	Close() error
}

// CodeSet is an immutable set of promo codes.
type CodeSet interface {
	// Contains reports whether the set holds the given code.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}

// Loader reads one gzipped promo file into a CodeSet.
type Loader interface {
	Load(ctx context.Context, path string) (CodeSet, error)
}
