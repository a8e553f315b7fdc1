package model

import "time"

// Supplier owns zero or more products.
type Supplier struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Logo      string    `json:"logo" db:"logo"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SupplierRequest is the payload for creating or updating a supplier.
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Slug    string `json:"slug" validate:"omitempty,max=200"`
	Logo    string `json:"logo"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Type    string `json:"type"`
}
