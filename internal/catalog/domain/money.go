package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount of a single ISO 4217 currency. Equality is
// structural over (amount, currency).
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney constructs Money from an amount and a raw currency code. The code
// is trimmed and upper-cased; anything other than three ASCII letters is
// rejected with an InvalidValueError.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

// NewMoneyFromString parses the amount from its decimal string representation.
func NewMoneyFromString(amount, currency string) (Money, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, &InvalidValueError{Value: amount, Reason: "amount is not a valid decimal"}
	}
	return NewMoney(value, currency)
}

func normalizeCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", &InvalidValueError{Value: raw, Reason: "currency must be a 3-letter ISO code"}
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", &InvalidValueError{Value: raw, Reason: "currency must contain letters only"}
		}
	}
	return code, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the normalized 3-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of two amounts in the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a factor, keeping the currency.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Equals reports structural equality of amount and currency.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
