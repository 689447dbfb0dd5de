package integration

import (
	"context"
	"testing"
	"time"

	"swiftcart/internal/database"
	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB truncates every table so scenarios start from a blank slate.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `TRUNCATE order_items, orders, products, users, messages, notification_jobs CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, name, email, role string) *model.User {
	t.Helper()

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
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

// SeedProduct inserts a product with the given price and stock and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, title string, price float64, stock int) *model.Product {
	t.Helper()

	ctx := context.Background()
	product := &model.Product{
		ID:        uuid.New(),
		Title:     title,
		Price:     price,
		Category:  "general",
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, title, description, price, category, weight, stock, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, '[]', $8, $9)`,
		product.ID, product.Title, product.Description, product.Price, product.Category,
		product.Weight, product.Stock, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return product
}

// ProductStock reads a product's current stock directly.
func ProductStock(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()

	var stock int
	if err := pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock); err != nil {
		t.Fatalf("failed to read product stock: %v", err)
	}
	return stock
}

// CountJobs counts notification jobs of the given type.
func CountJobs(t *testing.T, pool *pgxpool.Pool, jobType model.JobType) int {
	t.Helper()

	var count int
	if err := pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM notification_jobs WHERE job_type = $1`, jobType).Scan(&count); err != nil {
		t.Fatalf("failed to count jobs: %v", err)
	}
	return count
}
