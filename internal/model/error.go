package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeOutOfStock         = "OUT_OF_STOCK"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidAddress     = "INVALID_ADDRESS"
	ErrCodeInvalidPayment     = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidReason      = "INVALID_REASON"
	ErrCodeIllegalTransition  = "ILLEGAL_TRANSITION"
	ErrCodeInvalidPromoCode   = "INVALID_PROMO_CODE"
	ErrCodeInvalidPromoLength = "INVALID_PROMO_LENGTH"
	ErrCodeNotOrderOwner      = "NOT_ORDER_OWNER"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrOutOfStock         = NewDomainError(ErrCodeOutOfStock, "Insufficient stock for one or more products")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidAddress     = NewDomainError(ErrCodeInvalidAddress, "Shipping address is incomplete")
	ErrInvalidPayment     = NewDomainError(ErrCodeInvalidPayment, "Unsupported payment method")
	ErrInvalidReason      = NewDomainError(ErrCodeInvalidReason, "Cancellation reason must be between 1 and 500 characters")
	ErrIllegalTransition  = NewDomainError(ErrCodeIllegalTransition, "Order status transition not allowed")
	ErrInvalidPromoCode   = NewDomainError(ErrCodeInvalidPromoCode, "Promo code must appear in at least two promo files")
	ErrInvalidPromoLength = NewDomainError(ErrCodeInvalidPromoLength, "Promo code must be between 8 and 10 characters")
	ErrNotOrderOwner      = NewDomainError(ErrCodeNotOrderOwner, "Order belongs to another user")
)
