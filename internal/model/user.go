package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles recognised by the role checks on admin operations.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account record the order engine reads for notification
// recipients and suspension toggles. Credential management lives elsewhere.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Suspended bool      `json:"suspended" db:"suspended"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserPage is a paginated user listing.
type UserPage struct {
	Users      []User `json:"users"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalCount int    `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
}
