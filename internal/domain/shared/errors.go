package shared

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// ValidationError reports a missing or malformed field on an incoming
// record. The operation that raised it performed no mutation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StockError reports an insufficient quantity at a warehouse for a shipment
// or transfer. It carries the product identity together with the available
// and requested quantities so the caller can render a precise message.
// The operation that raised it is aborted entirely; no line item's effect
// is retained.
type StockError struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	Requested   decimal.Decimal `json:"requested"`
}

// Error implements the error interface
func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID.String()
	}
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		name, e.Available.String(), e.Requested.String())
}

// NewStockError creates a new stock shortfall error
func NewStockError(productID uuid.UUID, productName string, warehouseID uuid.UUID, available, requested decimal.Decimal) *StockError {
	return &StockError{
		ProductID:   productID,
		ProductName: productName,
		WarehouseID: warehouseID,
		Available:   available,
		Requested:   requested,
	}
}

// ReferentialIntegrityError reports a deletion that was blocked because
// dependent records still reference the resource.
type ReferentialIntegrityError struct {
	Resource   string    `json:"resource"`
	ResourceID uuid.UUID `json:"resource_id"`
	Dependent  string    `json:"dependent"`
}

// Error implements the error interface
func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: referenced by %s", e.Resource, e.ResourceID, e.Dependent)
}

// NewReferentialIntegrityError creates a new referential integrity error
func NewReferentialIntegrityError(resource string, resourceID uuid.UUID, dependent string) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{
		Resource:   resource,
		ResourceID: resourceID,
		Dependent:  dependent,
	}
}
