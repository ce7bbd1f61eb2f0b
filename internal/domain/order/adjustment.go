package order

import (
	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
)

type AdjustmentType string

const (
	AdjustmentTypeTax       AdjustmentType = "tax"
	AdjustmentTypePromotion AdjustmentType = "promotion"
	AdjustmentTypeShipping  AdjustmentType = "shipping"
	AdjustmentTypeFee       AdjustmentType = "fee"
	AdjustmentTypeOther     AdjustmentType = "other"
)

func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeTax, AdjustmentTypePromotion, AdjustmentTypeShipping, AdjustmentTypeFee, AdjustmentTypeOther:
		return true
	default:
		return false
	}
}

func (t AdjustmentType) String() string {
	return string(t)
}

// Adjustment modifies a price: discounts, shipping, fees and taxes.
// Included adjustments are already folded into the price they belong to.
type Adjustment struct {
	Type   AdjustmentType
	Label  string
	Amount vo.Money
	// Percentage is set for percentage based adjustments, e.g. "0.25" for 25% tax.
	Percentage *decimal.Decimal
	SourceID   string
	Included   bool
}

// FilterAdjustments returns adjustments whose type is in types. An empty
// types list matches everything.
func FilterAdjustments(adjustments []Adjustment, types ...AdjustmentType) []Adjustment {
	if len(types) == 0 {
		return append([]Adjustment(nil), adjustments...)
	}
	var out []Adjustment
	for _, adj := range adjustments {
		for _, t := range types {
			if adj.Type == t {
				out = append(out, adj)
				break
			}
		}
	}
	return out
}
