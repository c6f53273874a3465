package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount, currency string) Money {
	t.Helper()
	m, err := NewMoneyFromString(amount, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney_NormalizesCurrency(t *testing.T) {
	m, err := NewMoneyFromString("9.99", " usd ")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency())
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("9.99")))
}

func TestNewMoney_RejectsMalformedCurrency(t *testing.T) {
	cases := []string{"", "US", "USDD", "U1D", "usd1", "€UR"}
	for _, currency := range cases {
		_, err := NewMoney(decimal.NewFromInt(1), currency)
		var invalid *InvalidValueError
		assert.ErrorAs(t, err, &invalid, "currency %q should be rejected", currency)
	}
}

func TestNewMoneyFromString_RejectsMalformedAmount(t *testing.T) {
	_, err := NewMoneyFromString("nine-ninety-nine", "USD")
	var invalid *InvalidValueError
	assert.ErrorAs(t, err, &invalid)
}

// Property: any 3-letter code yields the upper-cased code, any other length fails.
func TestProperty_CurrencyCodeNormalization(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("3-letter codes normalize to upper case, other lengths fail", prop.ForAll(
		func(code string) bool {
			m, err := NewMoney(decimal.NewFromInt(1), code)
			if len(code) == 3 {
				if err != nil {
					return false
				}
				for i := 0; i < 3; i++ {
					want := code[i]
					if want >= 'a' && want <= 'z' {
						want -= 'a' - 'A'
					}
					if m.Currency()[i] != want {
						return false
					}
				}
				return true
			}
			return err != nil
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestMoney_Add_SameCurrency(t *testing.T) {
	a := mustMoney(t, "10.50", "USD")
	b := mustMoney(t, "4.25", "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("14.75")))
	assert.Equal(t, "USD", sum.Currency())
}

func TestMoney_Subtract_CanGoNegative(t *testing.T) {
	a := mustMoney(t, "4.25", "USD")
	b := mustMoney(t, "10.50", "USD")

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.RequireFromString("-6.25")))
}

func TestMoney_ArithmeticAcrossCurrenciesFails(t *testing.T) {
	usd := mustMoney(t, "10", "USD")
	eur := mustMoney(t, "10", "EUR")

	_, err := usd.Add(eur)
	var mismatch *CurrencyMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "USD", mismatch.Left)
	assert.Equal(t, "EUR", mismatch.Right)

	_, err = usd.Subtract(eur)
	assert.ErrorAs(t, err, &mismatch)
}

// Property: same-currency addition is associative.
func TestProperty_AdditionIsAssociative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("(a+b)+c == a+(b+c)", prop.ForAll(
		func(a, b, c int64) bool {
			ma, _ := NewMoney(decimal.NewFromInt(a), "USD")
			mb, _ := NewMoney(decimal.NewFromInt(b), "USD")
			mc, _ := NewMoney(decimal.NewFromInt(c), "USD")

			left, err1 := ma.Add(mb)
			left, err2 := left.Add(mc)
			right, err3 := mb.Add(mc)
			right, err4 := ma.Add(right)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				return false
			}
			return left.Equals(right)
		},
		gen.Int64(), gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestMoney_Multiply(t *testing.T) {
	price := mustMoney(t, "9.99", "USD")
	total := price.Multiply(decimal.NewFromInt(3))
	assert.True(t, total.Amount().Equal(decimal.RequireFromString("29.97")))
	assert.Equal(t, "USD", total.Currency())
}

func TestMoney_Equals_IsStructural(t *testing.T) {
	assert.True(t, mustMoney(t, "9.99", "usd").Equals(mustMoney(t, "9.99", "USD")))
	assert.False(t, mustMoney(t, "9.99", "USD").Equals(mustMoney(t, "9.99", "EUR")))
	assert.False(t, mustMoney(t, "9.99", "USD").Equals(mustMoney(t, "9.98", "USD")))
}
