package model

import "net/http"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeMissingField            = "MISSING_FIELD"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	ErrCodeSupplierNotFound        = "SUPPLIER_NOT_FOUND"
	ErrCodeSupplierHasProducts     = "SUPPLIER_HAS_PRODUCTS"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeWishlistItemExists      = "WISHLIST_ITEM_EXISTS"
	ErrCodeUploadFailed            = "UPLOAD_FAILED"
	ErrCodeSeoEntryNotFound        = "SEO_ENTRY_NOT_FOUND"
	ErrCodeSeoEntryExists          = "SEO_ENTRY_EXISTS"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies with a more specific
// message still compare equal to the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// HTTPStatus maps a domain error code to the response status.
func HTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidJSON, ErrCodeMissingField, ErrCodeValidation, ErrCodeInvalidQuantity:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeProductNotFound, ErrCodeSupplierNotFound, ErrCodeOrderNotFound,
		ErrCodeSeoEntryNotFound:
		return http.StatusNotFound
	case ErrCodeSupplierHasProducts, ErrCodeInvalidStatusTransition, ErrCodeWishlistItemExists,
		ErrCodeSeoEntryExists:
		return http.StatusConflict
	case ErrCodeProductUnavailable:
		return http.StatusUnprocessableEntity
	case ErrCodeUploadFailed:
		return http.StatusBadGateway
	case ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrProductUnavailable      = NewDomainError(ErrCodeProductUnavailable, "One or more products are not available for purchase")
	ErrSupplierNotFound        = NewDomainError(ErrCodeSupplierNotFound, "Supplier not found")
	ErrSupplierHasProducts     = NewDomainError(ErrCodeSupplierHasProducts, "Supplier still has products")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Order status transition is not allowed")
	ErrWishlistItemExists      = NewDomainError(ErrCodeWishlistItemExists, "product already exists in wishlist")
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "User is not signed in")
	ErrSeoEntryNotFound        = NewDomainError(ErrCodeSeoEntryNotFound, "SEO entry not found")
	ErrSeoEntryExists          = NewDomainError(ErrCodeSeoEntryExists, "An SEO entry already exists for this entity")
)

// ValidationError carries per-field validation messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Add records a message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
