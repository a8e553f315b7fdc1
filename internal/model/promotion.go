package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionType classifies a promotion.
type PromotionType string

const (
	PromotionTypeOffer    PromotionType = "OFFER"
	PromotionTypeDiscount PromotionType = "DISCOUNT"
	PromotionTypeBanner   PromotionType = "BANNER"
)

// DiscountType describes how a discount value is applied.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Promotion is a storefront offer or banner.
type Promotion struct {
	ID                string           `json:"id" db:"id"`
	Title             string           `json:"title" db:"title"`
	Description       string           `json:"description" db:"description"`
	Type              PromotionType    `json:"type" db:"type"`
	DiscountValue     *decimal.Decimal `json:"discountValue" db:"discount_value"`
	DiscountType      *DiscountType    `json:"discountType" db:"discount_type"`
	ProductIDs        []string         `json:"productIds" db:"product_ids"`
	MinimumOrderValue *decimal.Decimal `json:"minimumOrderValue" db:"minimum_order_value"`
	StartDate         *time.Time       `json:"startDate" db:"start_date"`
	EndDate           *time.Time       `json:"endDate" db:"end_date"`
	ImageURL          *string          `json:"imageUrl" db:"image_url"`
	Active            bool             `json:"active" db:"active"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}

// PromotionInput carries the raw form values of a promotion edit. Numeric
// and date fields arrive as strings and are parsed by the service.
type PromotionInput struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	DiscountValue     string `json:"discountValue"`
	DiscountType      string `json:"discountType"`
	ProductIDs        string `json:"productIds"`
	MinimumOrderValue string `json:"minimumOrderValue"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	RemoveImage       bool   `json:"removeImage"`
	Active            bool   `json:"active"`
}

// FormResult reports a form submission with per-field errors.
type FormResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	ID      string              `json:"id,omitempty"`
}
