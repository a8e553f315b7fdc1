package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Fallback image paths used when a product carries no image reference.
const (
	FallbackImage         = "/fallback/fallback.avif"
	FallbackWishlistImage = "/fallback/product-fallback.avif"
)

// Product represents a catalogue product.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Details     string          `json:"details" db:"details"`
	Size        string          `json:"size" db:"size"`
	Published   bool            `json:"published" db:"published"`
	OutOfStock  bool            `json:"outOfStock" db:"out_of_stock"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Images      []string        `json:"images" db:"images"`
	Rating      *float64        `json:"rating" db:"rating"`
	ReviewCount int             `json:"reviewCount" db:"review_count"`
	SupplierID  string          `json:"supplierId" db:"supplier_id"`
	Supplier    *Supplier       `json:"supplier,omitempty" db:"-"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// InStock reports whether the product can be ordered.
func (p Product) InStock() bool {
	return !p.OutOfStock
}

// MarshalJSON adds the derived inStock flag.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		InStock bool   `json:"inStock"`
		Type    string `json:"type"`
	}{
		alias:   alias(p),
		InStock: p.InStock(),
		Type:    "product",
	})
}

// Normalize fills display defaults for fields that may be empty in storage.
func (p *Product) Normalize(fallbackImage string) {
	if p.Slug == "" {
		p.Slug = p.ID
	}
	if p.ImageURL == "" {
		p.ImageURL = fallbackImage
	}
	if len(p.Images) == 0 {
		p.Images = []string{p.ImageURL}
	}
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
}

// ProductPage is one page of the product feed.
type ProductPage struct {
	Items   []Product `json:"items"`
	HasMore bool      `json:"hasMore"`
}

// EmptyPage returns the page used to signal "nothing more to load".
func EmptyPage() ProductPage {
	return ProductPage{Items: []Product{}, HasMore: false}
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Slug       string          `json:"slug" validate:"omitempty,max=200"`
	Price      decimal.Decimal `json:"price"`
	Details    string          `json:"details"`
	Size       string          `json:"size" validate:"max=50"`
	Published  bool            `json:"published"`
	OutOfStock bool            `json:"outOfStock"`
	ImageURL   string          `json:"imageUrl"`
	Images     []string        `json:"images"`
	SupplierID string          `json:"supplierId" validate:"required"`
}
