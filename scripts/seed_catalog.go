//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/database"
	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// seed_catalog populates the database with a demo admin, a demo customer and
// a handful of products. Run with: go run scripts/seed_catalog.go
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	users := []model.User{
		{ID: uuid.New(), Name: "Demo Admin", Email: "admin@swiftcart.local", Role: model.RoleAdmin, CreatedAt: time.Now()},
		{ID: uuid.New(), Name: "Demo Customer", Email: "customer@swiftcart.local", Role: model.RoleUser, CreatedAt: time.Now()},
	}
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Fatalf("Failed to seed user %s: %v", users[i].Email, err)
		}
		fmt.Printf("Seeded user %s (%s)\n", users[i].Email, users[i].Role)
	}

	products := []model.Product{
		{Title: "Desk Lamp", Description: "Adjustable LED desk lamp", Price: 25.00, Category: "home", Weight: "1.2kg", Stock: 40},
		{Title: "Office Chair", Description: "Ergonomic mesh chair", Price: 150.00, Category: "furniture", Weight: "12kg", Stock: 15},
		{Title: "Mechanical Keyboard", Description: "87-key tenkeyless", Price: 89.99, Category: "electronics", Weight: "0.9kg", Stock: 25},
		{Title: "Ceramic Mug", Description: "350ml stoneware mug", Price: 9.50, Category: "kitchen", Weight: "0.4kg", Stock: 120},
		{Title: "Notebook", Description: "A5 dotted, 192 pages", Price: 6.00, Category: "stationery", Weight: "0.3kg", Stock: 200},
	}
	for i := range products {
		products[i].ID = uuid.New()
		products[i].Images = []model.ProductImage{}
		products[i].CreatedAt = time.Now()
		products[i].UpdatedAt = time.Now()
		if err := productRepo.Create(ctx, &products[i]); err != nil {
			log.Fatalf("Failed to seed product %s: %v", products[i].Title, err)
		}
		fmt.Printf("Seeded product %s (stock %d)\n", products[i].Title, products[i].Stock)
	}

	fmt.Println("\nCatalog seeded successfully!")
}
