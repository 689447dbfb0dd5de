package repository

import (
	"context"
	"testing"
	"time"

	"swiftcart/internal/database"
	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the schema and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedUser inserts a user and returns it.
func seedUser(t *testing.T, pool *pgxpool.Pool, name, email, role string) *model.User {
	ctx := context.Background()

	user := &model.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email, role, suspended, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.Role, user.Suspended, user.CreatedAt)
	require.NoError(t, err)

	return user
}

// seedProduct inserts a product with the given stock and returns it.
func seedProduct(t *testing.T, pool *pgxpool.Pool, title string, price float64, stock int) *model.Product {
	ctx := context.Background()

	product := &model.Product{
		ID:        uuid.New(),
		Title:     title,
		Price:     price,
		Category:  "general",
		Stock:     stock,
		Images:    []model.ProductImage{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, title, description, price, category, weight, stock, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, '[]', $8, $9)`,
		product.ID, product.Title, product.Description, product.Price, product.Category,
		product.Weight, product.Stock, product.CreatedAt, product.UpdatedAt)
	require.NoError(t, err)

	return product
}

// completeShipping returns a shipping snapshot that satisfies the schema.
func completeShipping() model.ShippingDetails {
	return model.ShippingDetails{
		FullName:   "Test Customer",
		Address:    "1 Main Street",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
		Phone:      "5551234567",
	}
}

// seedOrder inserts an order with one line item for the given product and
// returns the order.
func seedOrder(t *testing.T, pool *pgxpool.Pool, repo OrderRepository, userID uuid.UUID, product *model.Product, quantity int, status model.OrderStatus) *model.Order {
	ctx := context.Background()

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Shipping:      completeShipping(),
		PaymentMethod: model.PaymentMethodCOD,
		CODCharges:    50,
		TotalRevenue:  product.Price * float64(quantity),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Items = []model.OrderItem{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Title:     product.Title,
		Quantity:  quantity,
		UnitPrice: product.Price,
		LineTotal: product.Price * float64(quantity),
	}}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, order.Items))
	require.NoError(t, tx.Commit(ctx))

	return order
}
