package domain

import "strings"

const (
	skuMinLength = 3
	skuMaxLength = 50
)

// Sku is a normalized stock keeping unit code: upper-case, 3-50 characters,
// letters, digits and dashes only. Two raw inputs that differ only in casing
// or surrounding whitespace normalize to the same Sku.
type Sku struct {
	value string
}

// NewSku normalizes and validates a raw SKU string.
func NewSku(raw string) (Sku, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if len(value) < skuMinLength || len(value) > skuMaxLength {
		return Sku{}, &InvalidValueError{Value: raw, Reason: "sku must be 3-50 characters"}
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '-' {
			return Sku{}, &InvalidValueError{Value: raw, Reason: "sku may contain only A-Z, 0-9 and dashes"}
		}
	}
	return Sku{value: value}, nil
}

// Value returns the normalized SKU string.
func (s Sku) Value() string {
	return s.value
}

// IsZero reports whether the Sku was never constructed.
func (s Sku) IsZero() bool {
	return s.value == ""
}

func (s Sku) String() string {
	return s.value
}
