package service

import (
	"errors"
	"fmt"

	"github.com/printshop-os/inventory_api/internal/models"
)

// Lookup error codes. Callers distinguish "the SKU does not exist" from
// "we cannot reach the supplier right now"; the two are actionable
// differently.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeSupplierError = "SUPPLIER_ERROR"
	CodeInvalidSKU    = "INVALID_SKU"
	CodeCacheError    = "CACHE_ERROR"
)

// LookupError is the typed failure surfaced at the query-engine boundary.
// Raw transport errors never escape the engine; they are wrapped here after
// the retry policy has been exhausted.
type LookupError struct {
	Code     string
	SKU      string
	Supplier models.SupplierCode
	Message  string
	Err      error
}

func (e *LookupError) Error() string {
	if e.Supplier != "" {
		return fmt.Sprintf("%s: %s (sku=%s, supplier=%s)", e.Code, e.Message, e.SKU, e.Supplier)
	}
	return fmt.Sprintf("%s: %s (sku=%s)", e.Code, e.Message, e.SKU)
}

func (e *LookupError) Unwrap() error { return e.Err }

// NotFoundError builds a NOT_FOUND lookup error.
func NotFoundError(sku string, supplier models.SupplierCode) *LookupError {
	return &LookupError{
		Code:     CodeNotFound,
		SKU:      sku,
		Supplier: supplier,
		Message:  "product not found",
	}
}

// SupplierError builds a SUPPLIER_ERROR lookup error wrapping the cause.
func SupplierError(sku string, supplier models.SupplierCode, msg string, err error) *LookupError {
	return &LookupError{
		Code:     CodeSupplierError,
		SKU:      sku,
		Supplier: supplier,
		Message:  msg,
		Err:      err,
	}
}

// InvalidSKUError builds an INVALID_SKU lookup error. Raised before any
// network traffic.
func InvalidSKUError(sku, msg string) *LookupError {
	return &LookupError{Code: CodeInvalidSKU, SKU: sku, Message: msg}
}

// AsLookupError extracts a LookupError from an error chain, or nil.
func AsLookupError(err error) *LookupError {
	var le *LookupError
	if errors.As(err, &le) {
		return le
	}
	return nil
}

// ErrorCode returns the lookup code for an error, defaulting unknown errors
// to SUPPLIER_ERROR.
func ErrorCode(err error) string {
	if le := AsLookupError(err); le != nil {
		return le.Code
	}
	return CodeSupplierError
}
