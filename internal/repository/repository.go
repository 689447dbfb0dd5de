package repository

import (
	"context"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines data access for the product catalogue.
type ProductRepository interface {
	// List retrieves products matching the filter with pagination, returning
	// the matching rows and the total match count.
	List(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces a product's mutable fields. Stock is not touched here;
	// all stock movement goes through AdjustStock.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies delta to a product's stock in a single atomic
	// statement. A decrement that would take stock below zero fails with
	// model.ErrOutOfStock and leaves the row untouched. Every flow that moves
	// stock (placement debit, cancellation credit, admin edit) uses this.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// OrderRepository defines data access for orders and their aggregates.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate retrieves an order with its items inside tx, locking
	// the order row until the transaction finishes.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateStatus writes the order's status (and cancel reason, when set)
	// within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, cancelReason *string) error

	// Delete removes the order row within the provided transaction; items
	// cascade.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// ListByUser retrieves a user's orders, newest first, with pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, int, error)

	// List retrieves all orders, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Order, int, error)

	// TotalSales sums total_revenue over delivered orders only, returning the
	// sum and the delivered order count.
	TotalSales(ctx context.Context) (float64, int, error)

	// TopSellingProduct returns the highest-revenue product over delivered
	// orders' line items, ties broken by lowest product id. Returns nil when
	// no delivered orders exist.
	TopSellingProduct(ctx context.Context) (*model.TopProductSummary, error)
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// List retrieves users with pagination, returning rows and total count.
	List(ctx context.Context, limit, offset int) ([]model.User, int, error)

	// ToggleSuspension flips the user's suspended flag atomically and returns
	// the updated user. Returns nil when the user is absent.
	ToggleSuspension(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// MessageRepository persists admin-to-user audit messages.
type MessageRepository interface {
	// Create inserts a message record.
	Create(ctx context.Context, message *model.Message) error
}

// JobRepository is the durable notification queue.
type JobRepository interface {
	// Enqueue records a job on its own connection.
	Enqueue(ctx context.Context, job *model.NotificationJob) error

	// EnqueueTx records a job within the provided transaction, so the job
	// commits or rolls back with the state change that triggered it.
	EnqueueTx(ctx context.Context, tx pgx.Tx, job *model.NotificationJob) error

	// ClaimDue atomically moves up to limit due jobs to in-flight and returns
	// them. Due covers queued jobs whose next attempt time has passed and
	// in-flight jobs whose claim lease has expired, so a job orphaned by a
	// crashed dispatcher is eventually redelivered. Concurrent claimers never
	// receive the same job.
	ClaimDue(ctx context.Context, limit int) ([]model.NotificationJob, error)

	// MarkSucceeded finalises a delivered job.
	MarkSucceeded(ctx context.Context, id uuid.UUID) error

	// MarkFailed records a failed attempt: the job returns to the queue with
	// next_attempt_at pushed out by its backoff, or becomes failed-exhausted
	// once attempts reach max_attempts. The resulting status is returned.
	MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string) (model.JobStatus, error)

	// GetByID retrieves a job by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error)

	// ListExhausted retrieves failed-exhausted jobs, newest first, for
	// operator follow-up.
	ListExhausted(ctx context.Context, limit int) ([]model.NotificationJob, error)
}
