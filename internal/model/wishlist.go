package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a product they saved.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActionResult is the outcome of a user-facing action whose failures are
// expected and reported as messages rather than errors.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
