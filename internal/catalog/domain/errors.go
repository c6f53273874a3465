package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrNotFound is returned when a referenced product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrDuplicateSKU is returned when a product with the same SKU already exists.
	ErrDuplicateSKU = errors.New("sku already exists")

	// ErrConcurrencyConflict is returned when an optimistic version check fails.
	// Callers should reload the product and retry.
	ErrConcurrencyConflict = errors.New("product was modified concurrently")

	// ErrInvalidArgument is returned on caller contract violations such as a
	// non-positive page size.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidValueError reports a malformed raw value rejected by a value object
// constructor.
type InvalidValueError struct {
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
}

// ValidationError reports a violated aggregate invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// CurrencyMismatchError reports Money arithmetic across two different currencies.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

// InvalidStateTransitionError reports an illegal product status change.
type InvalidStateTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition product from %s to %s", e.From, e.To)
}
