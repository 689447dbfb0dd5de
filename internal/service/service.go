package service

import (
	"context"

	"swiftcart/internal/model"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation. The auth collaborator is
// trusted to have established it; services only apply role and ownership
// checks.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Admin reports whether the actor holds the admin role.
func (a Actor) Admin() bool {
	return a.Role == model.RoleAdmin
}

// ProductService defines catalogue operations.
type ProductService interface {
	// List retrieves a paginated product listing.
	List(ctx context.Context, filter model.ProductFilter, page, limit int) (*model.ProductPage, error)

	// GetByID retrieves a single product. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create adds a product to the catalogue (admin).
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's fields except stock (admin).
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product (admin).
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a stock delta through the shared atomic primitive
	// (admin direct edit).
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// OrderService is the order engine: creation, status transitions, and stock
// consistency.
type OrderService interface {
	// PlaceOrder creates an order from the requested lines at live prices,
	// debiting stock per line with compensation on mid-order failure.
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.Order, error)

	// GetByID retrieves an order; non-admin actors only see their own.
	GetByID(ctx context.Context, id uuid.UUID, actor Actor) (*model.Order, error)

	// ListByUser retrieves the actor's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*model.OrderPage, error)

	// ChangeStatus advances an order along the delivery state machine
	// (admin). Cancellation is not accepted here; it goes through Cancel so
	// stock credit can never be skipped.
	ChangeStatus(ctx context.Context, orderID uuid.UUID, newStatus model.OrderStatus) error

	// Cancel flips the order to cancelled, credits stock back per line, and
	// enqueues an order-cancel notification. Irreversible.
	Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, reason string) error

	// HardDelete purges the order record entirely (admin). Stock is credited
	// back unless the order was already cancelled.
	HardDelete(ctx context.Context, orderID uuid.UUID, reason string) error
}

// CartService computes authoritative cart quotes from live catalogue data.
type CartService interface {
	// Quote prices the given lines at live prices and applies tax, COD
	// charges, and any promo discount. Nothing is persisted or reserved.
	Quote(ctx context.Context, req *model.CartQuoteRequest) (*model.CartQuote, error)
}

// ReportService is the read-only admin aggregation side.
type ReportService interface {
	// Dashboard returns the aggregate stats payload.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)

	// ListOrders returns a page of all orders plus realized total sales.
	ListOrders(ctx context.Context, page, limit int) (*model.OrderPage, float64, error)

	// ListUsers returns a page of user accounts.
	ListUsers(ctx context.Context, page, limit int) (*model.UserPage, error)

	// FailedJobs returns notification jobs that exhausted their retries.
	FailedJobs(ctx context.Context, limit int) ([]model.NotificationJob, error)
}

// AccountService covers the account-side flows that feed the notification
// queue. Credential and session management belong to the auth collaborator.
type AccountService interface {
	// ToggleSuspension flips a user's suspension flag and enqueues a
	// toggle-suspension notification (admin).
	ToggleSuspension(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// RequestEmailVerification enqueues a verify-email notification.
	RequestEmailVerification(ctx context.Context, userID uuid.UUID) error
}
