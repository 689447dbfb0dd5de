package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// PaymentMethodCOD is the only supported payment method. Orders paid this way
// carry a flat cash-on-delivery charge on top of the item subtotal.
const PaymentMethodCOD = "cod"

// statusTransitions is the allowed transition table. delivered and cancelled
// are terminal. Cancellation is a transition here too, but it must go through
// the cancel operation so stock is credited back.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingDetails is the address snapshot captured once at order creation.
type ShippingDetails struct {
	FullName   string `json:"fullName" db:"full_name"`
	Address    string `json:"address" db:"address"`
	City       string `json:"city" db:"city"`
	State      string `json:"state" db:"state"`
	PostalCode string `json:"postalCode" db:"postal_code"`
	Country    string `json:"country" db:"country"`
	Phone      string `json:"phone" db:"phone"`
}

// Complete reports whether every required address field is present.
func (d ShippingDetails) Complete() bool {
	return d.FullName != "" && d.Address != "" && d.City != "" &&
		d.State != "" && d.PostalCode != "" && d.Country != "" && d.Phone != ""
}

// Order is the order aggregate. Items, shipping details, payment fields and
// TotalRevenue are immutable after creation; only Status, CancelReason and
// UpdatedAt change thereafter.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"userId" db:"user_id"`
	Items         []OrderItem     `json:"orderItems"`
	Shipping      ShippingDetails `json:"shippingDetails"`
	PaymentMethod string          `json:"paymentMethod" db:"payment_method"`
	CODCharges    float64         `json:"codCharges" db:"cod_charges"`
	TotalRevenue  float64         `json:"totalRevenue" db:"total_revenue"`
	Status        OrderStatus     `json:"status" db:"status"`
	CancelReason  *string         `json:"cancelReason,omitempty" db:"cancel_reason"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a single order line with the unit price frozen at purchase time.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Title     string    `json:"title" db:"title"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	LineTotal float64   `json:"lineTotal" db:"line_total"`
}

// OrderLineRequest is a single requested line in a place-order call. Only the
// product reference and quantity are trusted; price and stock are re-read live.
type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for placing an order.
type PlaceOrderRequest struct {
	Items         []OrderLineRequest `json:"items"`
	Shipping      ShippingDetails    `json:"shippingDetails"`
	PaymentMethod string             `json:"paymentMethod"`
}

// ChangeStatusRequest is the admin payload for a delivery-status update.
type ChangeStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// CancelOrderRequest is the payload for cancelling (or hard-deleting) an order.
type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// OrderPage is a paginated order listing.
type OrderPage struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
}
