package sessionbuilder

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/config"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

func validURLs() paymentgateway.MerchantURLs {
	return paymentgateway.MerchantURLs{
		Checkout:     "https://shop.example/checkout/42",
		Confirmation: "https://shop.example/confirm/42",
		Push:         "https://shop.example/push",
	}
}

func newTestRequestBuilder(cfg config.KlarnaConfig, hooks Hooks) *RequestBuilder {
	return NewRequestBuilder(cfg, "https://shop.example/", newTestConverter(), newTestAggregator(), hooks)
}

func widgetOrder() *order.Order {
	return newTestOrder(usd("19.99"), []*order.Item{{
		ID:         1,
		Label:      "Widget",
		SKU:        "W-1",
		Quantity:   decimal.NewFromInt(2),
		UnitPrice:  usd("9.995"),
		TotalPrice: usd("19.99"),
	}}, nil)
}

type recordingHooks struct {
	NopHooks
	calls int
	name  string
}

func (h *recordingHooks) BeforeSessionRequestSend(_ context.Context, _ *order.Order, req *paymentgateway.SessionRequest) (*paymentgateway.SessionRequest, error) {
	h.calls++
	if h.name != "" {
		req.Name = h.name
	}
	return req, nil
}

func TestRequestBuilder_Build(t *testing.T) {
	b := newTestRequestBuilder(testKlarnaConfig(), nil)

	req, err := b.Build(context.Background(), widgetOrder(), validURLs())
	require.NoError(t, err)

	assert.Equal(t, "US", req.PurchaseCountry)
	assert.Equal(t, "USD", req.PurchaseCurrency)
	assert.Equal(t, "en-us", req.Locale)
	assert.Equal(t, "Test Store", req.Name)
	assert.Equal(t, int64(1999), req.OrderAmount)
	assert.Equal(t, int64(0), req.OrderTaxAmount)
	assert.Equal(t, "42", req.MerchantReference1, "falls back to the order id")
	assert.Equal(t, "42", req.MerchantReference2)
	assert.Equal(t, "https://shop.example/terms", req.MerchantURLs.Terms)
	assert.Equal(t, "https://shop.example/push", req.MerchantURLs.Push)
	assert.Nil(t, req.Options.AllowedCustomerTypes)
	assert.Nil(t, req.BillingAddress)

	require.Len(t, req.OrderLines, 1)
	assert.Equal(t, int64(1000), req.OrderLines[0].UnitPrice)
	assert.Equal(t, int64(1999), req.OrderLines[0].TotalAmount)
}

func TestRequestBuilder_TermsURL(t *testing.T) {
	tests := []struct {
		name      string
		termsPath string
		terms     string
		want      string
	}{
		{"configured path", "/terms", "", "https://shop.example/terms"},
		{"caller url wins", "/terms", "https://legal.example/tos", "https://legal.example/tos"},
		{"caller path is made absolute", "/terms", "/de/agb", "https://shop.example/de/agb"},
		{"absolute configured url", "https://legal.example/terms", "", "https://legal.example/terms"},
		{"empty path falls back to site root", "", "", "https://shop.example/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testKlarnaConfig()
			cfg.TermsPath = tt.termsPath
			b := newTestRequestBuilder(cfg, nil)
			urls := validURLs()
			urls.Terms = tt.terms

			req, err := b.Build(context.Background(), widgetOrder(), urls)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.MerchantURLs.Terms)
		})
	}
}

func TestRequestBuilder_RelativeURLWithoutBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		termsPath string
		terms     string
		wantErr   bool
	}{
		{"relative configured path", "/terms", "", true},
		{"empty configured path", "", "", true},
		{"relative caller path", "", "/agb", true},
		{"absolute configured url", "https://legal.example/terms", "", false},
		{"absolute caller url", "", "https://legal.example/tos", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testKlarnaConfig()
			cfg.TermsPath = tt.termsPath
			hooks := &recordingHooks{}
			b := NewRequestBuilder(cfg, "", newTestConverter(), newTestAggregator(), hooks)
			urls := validURLs()
			urls.Terms = tt.terms

			req, err := b.Build(context.Background(), widgetOrder(), urls)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotEmpty(t, req.MerchantURLs.Terms)
				return
			}
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, errors.IsConfigurationError(err))
			assert.Zero(t, hooks.calls)
		})
	}
}

func TestRequestBuilder_MissingMerchantURL(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*paymentgateway.MerchantURLs)
		key    string
	}{
		{"checkout", func(u *paymentgateway.MerchantURLs) { u.Checkout = "" }, "checkout"},
		{"confirmation", func(u *paymentgateway.MerchantURLs) { u.Confirmation = " " }, "confirmation"},
		{"push", func(u *paymentgateway.MerchantURLs) { u.Push = "" }, "push"},
		{"reports first missing", func(u *paymentgateway.MerchantURLs) { u.Push = ""; u.Confirmation = "" }, "confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &recordingHooks{}
			b := newTestRequestBuilder(testKlarnaConfig(), hooks)
			urls := validURLs()
			tt.mutate(&urls)

			req, err := b.Build(context.Background(), widgetOrder(), urls)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, errors.IsInvalidArgumentError(err))
			assert.Contains(t, err.Error(), "missing required key "+tt.key)
			assert.Zero(t, hooks.calls)
		})
	}
}

func TestRequestBuilder_OrderNumberAndStoreName(t *testing.T) {
	cfg := testKlarnaConfig()
	cfg.StoreName = "Fallback Store"
	b := newTestRequestBuilder(cfg, nil)

	o := order.ReconstructOrder(order.OrderReconstructParams{
		ID:          7,
		OrderNumber: "A-1007",
		Total:       usd("1"),
	})

	req, err := b.Build(context.Background(), o, validURLs())
	require.NoError(t, err)
	assert.Equal(t, "A-1007", req.MerchantReference1)
	assert.Equal(t, "7", req.MerchantReference2)
	assert.Equal(t, "Fallback Store", req.Name)
	assert.Empty(t, req.OrderLines)
}

func TestRequestBuilder_BillingAddress(t *testing.T) {
	b := newTestRequestBuilder(testKlarnaConfig(), nil)

	profile := order.NewProfile()
	profile.Address = order.Address{GivenName: "Ada", FamilyName: "Lovelace", CountryCode: "US"}

	withoutEmail := order.ReconstructOrder(order.OrderReconstructParams{
		ID: 1, Total: usd("1"), BillingProfile: profile,
	})
	req, err := b.Build(context.Background(), withoutEmail, validURLs())
	require.NoError(t, err)
	require.NotNil(t, req.BillingAddress)
	assert.Equal(t, "Ada", req.BillingAddress["given_name"])
	assert.Equal(t, "US", req.BillingAddress["country"])
	_, hasEmail := req.BillingAddress["email"]
	assert.False(t, hasEmail)

	withEmail := order.ReconstructOrder(order.OrderReconstructParams{
		ID: 1, Total: usd("1"), BillingProfile: profile, Email: "ada@example.com",
	})
	req, err = b.Build(context.Background(), withEmail, validURLs())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", req.BillingAddress["email"])
}

func TestRequestBuilder_Options(t *testing.T) {
	cfg := testKlarnaConfig()
	cfg.AllowSeparateShippingAddress = true
	cfg.AllowedCustomerTypes = []string{"person", "organization"}
	b := newTestRequestBuilder(cfg, nil)

	req, err := b.Build(context.Background(), widgetOrder(), validURLs())
	require.NoError(t, err)
	assert.True(t, req.Options.AllowSeparateShippingAddress)
	assert.Equal(t, []string{"person", "organization"}, req.Options.AllowedCustomerTypes)
}

func TestRequestBuilder_OrderTaxAmount(t *testing.T) {
	b := newTestRequestBuilder(testKlarnaConfig(), nil)

	o := newTestOrder(usd("110"), []*order.Item{{
		ID:         1,
		Label:      "Desk",
		Quantity:   decimal.NewFromInt(1),
		UnitPrice:  usd("100"),
		TotalPrice: usd("100"),
		Adjustments: []order.Adjustment{
			{Type: order.AdjustmentTypeTax, Amount: usd("8"), Percentage: pct("0.08"), SourceID: "state"},
		},
	}}, []order.Adjustment{
		{Type: order.AdjustmentTypeTax, Amount: usd("2"), Percentage: pct("0.02"), SourceID: "city"},
	})

	req, err := b.Build(context.Background(), o, validURLs())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), req.OrderTaxAmount)
	assert.Equal(t, int64(800), req.OrderLines[0].TotalTaxAmount)
	assert.Equal(t, int64(800), req.OrderLines[0].TaxRate)
}

func TestRequestBuilder_InvokesHook(t *testing.T) {
	hooks := &recordingHooks{name: "Altered"}
	b := newTestRequestBuilder(testKlarnaConfig(), hooks)

	req, err := b.Build(context.Background(), widgetOrder(), validURLs())
	require.NoError(t, err)
	assert.Equal(t, 1, hooks.calls)
	assert.Equal(t, "Altered", req.Name)
}

func TestRequestBuilder_ZeroDecimalCurrency(t *testing.T) {
	b := newTestRequestBuilder(testKlarnaConfig(), nil)
	o := order.ReconstructOrder(order.OrderReconstructParams{ID: 3, Total: vo.MustParseMoney("1500", "JPY")})

	req, err := b.Build(context.Background(), o, validURLs())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), req.OrderAmount)
	assert.Equal(t, "JPY", req.PurchaseCurrency)
}

func TestDefaultMerchantURLs(t *testing.T) {
	cfg := testKlarnaConfig()
	cfg.MerchantURLs = config.MerchantURLsConfig{
		Checkout:     "/checkout/{order_id}",
		Confirmation: "/api/checkout/orders/{order_id}/confirmation",
		Push:         "https://hooks.example/push?klarna_order_id={checkout.order_id}",
	}
	b := newTestRequestBuilder(cfg, nil)

	urls, err := b.DefaultMerchantURLs(widgetOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/checkout/42", urls.Checkout)
	assert.Equal(t, "https://shop.example/api/checkout/orders/42/confirmation", urls.Confirmation)
	assert.Equal(t, "https://hooks.example/push?klarna_order_id={checkout.order_id}", urls.Push)
	assert.NoError(t, ValidateMerchantURLs(urls))
}

func TestDefaultMerchantURLs_RequiresBaseURLForPaths(t *testing.T) {
	cfg := testKlarnaConfig()
	cfg.MerchantURLs = config.MerchantURLsConfig{
		Checkout:     "https://shop.example/checkout/{order_id}",
		Confirmation: "/confirmation/{order_id}",
		Push:         "https://hooks.example/push",
	}
	b := NewRequestBuilder(cfg, "", newTestConverter(), newTestAggregator(), nil)

	urls, err := b.DefaultMerchantURLs(widgetOrder())
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Empty(t, urls.Checkout)

	cfg.MerchantURLs.Confirmation = "https://shop.example/confirmation/{order_id}"
	b = NewRequestBuilder(cfg, "", newTestConverter(), newTestAggregator(), nil)
	urls, err = b.DefaultMerchantURLs(widgetOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/confirmation/42", urls.Confirmation)
}
