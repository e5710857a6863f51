package service

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers translate these into HTTP statuses; the
// messages are safe to show to callers.
var (
	// ErrNotFound covers any referenced id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey covers uniqueness violations (product name, customer phone).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrProductNotFound / ErrSizeNotFound are raised while validating sale items.
	ErrProductNotFound = errors.New("product not found")
	ErrSizeNotFound    = errors.New("product size not found")
)

// InsufficientStockError reports a sale item that asked for more units than
// the size currently has. Available is included so the caller can display
// "Only N units available".
type InsufficientStockError struct {
	Product   string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): only %d units available", e.Product, e.Size, e.Available)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
