package order

import (
	"strconv"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
)

// Item is a purchased line of an order. TotalPrice is unit price times
// quantity, before non-included adjustments.
type Item struct {
	ID          uint
	Label       string
	SKU         string
	Quantity    decimal.Decimal
	UnitPrice   vo.Money
	TotalPrice  vo.Money
	Adjustments []Adjustment
}

// Reference identifies the line towards the provider: the SKU of the
// purchased entity when known, otherwise the item id.
func (i *Item) Reference() string {
	if i.SKU != "" {
		return i.SKU
	}
	return strconv.FormatUint(uint64(i.ID), 10)
}

// IntQuantity truncates fractional quantities.
func (i *Item) IntQuantity() int64 {
	return i.Quantity.IntPart()
}

func (i *Item) AdjustmentsOfType(types ...AdjustmentType) []Adjustment {
	return FilterAdjustments(i.Adjustments, types...)
}
