package sessionbuilder

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
)

// taxRateScale turns a 0.25 percentage into the provider's 2500.
var taxRateScale = decimal.NewFromInt(10000)

var adjustmentLineTypes = map[order.AdjustmentType]string{
	order.AdjustmentTypePromotion: paymentgateway.OrderLineTypeDiscount,
	order.AdjustmentTypeShipping:  paymentgateway.OrderLineTypeShippingFee,
}

// LineItemBuilder produces provider order lines from an order.
type LineItemBuilder struct {
	converter  *MoneyConverter
	aggregator *AdjustmentAggregator
	policy     *bluemonday.Policy
}

func NewLineItemBuilder(converter *MoneyConverter, aggregator *AdjustmentAggregator) *LineItemBuilder {
	return &LineItemBuilder{
		converter:  converter,
		aggregator: aggregator,
		policy:     bluemonday.StrictPolicy(),
	}
}

// Build emits one line per item followed by one line per non-included
// promotion or shipping adjustment. Other adjustment types are skipped.
func (b *LineItemBuilder) Build(o *order.Order) ([]paymentgateway.OrderLine, error) {
	lines := make([]paymentgateway.OrderLine, 0, len(o.Items()))

	for _, item := range o.Items() {
		line, err := b.itemLine(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	for _, adj := range o.CollectAdjustments() {
		lineType, ok := adjustmentLineTypes[adj.Type]
		if !ok || adj.Included {
			continue
		}
		amount, err := b.converter.ToMinorUnits(adj.Amount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, paymentgateway.OrderLine{
			Reference:      adj.SourceID,
			Name:           b.label(adj.Label),
			Type:           lineType,
			Quantity:       1,
			TaxRate:        0,
			UnitPrice:      amount,
			TotalTaxAmount: 0,
			TotalAmount:    amount,
		})
	}

	return lines, nil
}

func (b *LineItemBuilder) itemLine(item *order.Item) (paymentgateway.OrderLine, error) {
	taxAdjustments := item.AdjustmentsOfType(order.AdjustmentTypeTax)

	var taxRate int64
	if len(taxAdjustments) > 0 && taxAdjustments[0].Percentage != nil {
		taxRate = taxAdjustments[0].Percentage.Mul(taxRateScale).Round(0).IntPart()
	}

	var taxTotal int64
	total, err := b.aggregator.Total(taxAdjustments, nil, false)
	if err != nil {
		return paymentgateway.OrderLine{}, fmt.Errorf("failed to total tax for item %d: %w", item.ID, err)
	}
	if total != nil {
		if taxTotal, err = b.converter.ToMinorUnits(*total); err != nil {
			return paymentgateway.OrderLine{}, err
		}
	}

	unitPrice, err := b.converter.ToMinorUnits(item.UnitPrice)
	if err != nil {
		return paymentgateway.OrderLine{}, err
	}
	totalAmount, err := b.converter.ToMinorUnits(item.TotalPrice)
	if err != nil {
		return paymentgateway.OrderLine{}, err
	}

	return paymentgateway.OrderLine{
		Reference:      item.Reference(),
		Name:           b.label(item.Label),
		Quantity:       item.IntQuantity(),
		TaxRate:        taxRate,
		UnitPrice:      unitPrice,
		TotalTaxAmount: taxTotal,
		TotalAmount:    totalAmount,
	}, nil
}

// label strips markup from host labels; the provider renders plain text.
func (b *LineItemBuilder) label(s string) string {
	return strings.TrimSpace(html.UnescapeString(b.policy.Sanitize(s)))
}
