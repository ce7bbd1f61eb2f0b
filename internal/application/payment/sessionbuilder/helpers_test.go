package sessionbuilder

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/config"
)

type staticCurrencies map[string]int32

func (s staticCurrencies) FractionDigits(code string) (int32, error) {
	d, ok := s[code]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", code)
	}
	return d, nil
}

var testCurrencies = staticCurrencies{"USD": 2, "SEK": 2, "JPY": 0, "KWD": 3}

func newTestConverter() *MoneyConverter {
	return NewMoneyConverter(testCurrencies)
}

func newTestAggregator() *AdjustmentAggregator {
	return NewAdjustmentAggregator(NewDefaultAdjustmentTransformer(newTestConverter()))
}

func usd(amount string) vo.Money {
	return vo.MustParseMoney(amount, "USD")
}

func pct(p string) *decimal.Decimal {
	d := decimal.RequireFromString(p)
	return &d
}

func testKlarnaConfig() config.KlarnaConfig {
	return config.KlarnaConfig{
		Username:        "PK1",
		Password:        "secret",
		Mode:            "test",
		PurchaseCountry: "US",
		Locale:          "en-us",
		TermsPath:       "/terms",
	}
}

func newTestOrder(total vo.Money, items []*order.Item, adjustments []order.Adjustment) *order.Order {
	return order.ReconstructOrder(order.OrderReconstructParams{
		ID:          42,
		StoreName:   "Test Store",
		Total:       total,
		Items:       items,
		Adjustments: adjustments,
	})
}
