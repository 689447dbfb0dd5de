package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is a single entry in a product's ordered image list.
type ProductImage struct {
	URL string `json:"url"`
}

// Product represents a catalogue product.
type Product struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Category    string         `json:"category" db:"category"`
	Weight      string         `json:"weight" db:"weight"`
	Stock       int            `json:"stock" db:"stock"`
	Images      []ProductImage `json:"images" db:"images"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// ProductRequest is the payload for admin product create/update operations.
type ProductRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Weight      string         `json:"weight"`
	Stock       int            `json:"stock"`
	Images      []ProductImage `json:"images"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductPage is a paginated product listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}
