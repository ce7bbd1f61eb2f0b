// Package sessionbuilder translates host orders into provider session
// requests: minor unit conversion, address mapping, order lines and totals.
package sessionbuilder

import (
	"fmt"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// CurrencyResolver supplies currency metadata.
type CurrencyResolver interface {
	// FractionDigits returns the number of minor unit digits for an ISO 4217 code.
	FractionDigits(currencyCode string) (int32, error)
}

// MoneyConverter converts between decimal money and provider minor units.
// Rounding is half away from zero.
type MoneyConverter struct {
	currencies CurrencyResolver
}

func NewMoneyConverter(currencies CurrencyResolver) *MoneyConverter {
	return &MoneyConverter{currencies: currencies}
}

// ToMinorUnits converts 9.99 USD to 999.
func (c *MoneyConverter) ToMinorUnits(amount vo.Money) (int64, error) {
	digits, err := c.fractionDigits(amount.Currency())
	if err != nil {
		return 0, err
	}
	return amount.Amount().Shift(digits).Round(0).IntPart(), nil
}

// FromMinorUnits converts 999 USD to 9.99 with exactly the currency's
// fraction digits as exponent.
func (c *MoneyConverter) FromMinorUnits(amount int64, currencyCode string) (vo.Money, error) {
	digits, err := c.fractionDigits(currencyCode)
	if err != nil {
		return vo.Money{}, err
	}
	return vo.NewMoney(decimal.New(amount, -digits), currencyCode), nil
}

// Round rounds amount to the currency precision.
func (c *MoneyConverter) Round(amount vo.Money) (vo.Money, error) {
	digits, err := c.fractionDigits(amount.Currency())
	if err != nil {
		return vo.Money{}, err
	}
	return amount.Round(digits), nil
}

func (c *MoneyConverter) fractionDigits(currencyCode string) (int32, error) {
	if currencyCode == "" {
		return 0, errors.NewConfigurationError("missing currency code")
	}
	digits, err := c.currencies.FractionDigits(currencyCode)
	if err != nil {
		if errors.IsConfigurationError(err) {
			return 0, err
		}
		return 0, errors.Wrap(errors.ErrorTypeConfiguration,
			fmt.Sprintf("cannot resolve currency %s", currencyCode), err)
	}
	return digits, nil
}
