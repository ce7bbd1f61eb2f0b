package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a signed decimal amount in an ISO 4217 currency. It carries no
// precision; fraction digits are resolved per currency when converting.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		amount:   amount,
		currency: strings.ToUpper(currency),
	}
}

// MustParseMoney panics on malformed input. Intended for fixtures and tests.
func MustParseMoney(amount, currency string) Money {
	return NewMoney(decimal.RequireFromString(amount), currency)
}

func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equals compares numerically, so 10 and 10.00 are equal.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

func (m Money) Multiply(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

func (m Money) Round(places int32) Money {
	return NewMoney(m.amount.Round(places), m.currency)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
