package sessionbuilder

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/shared/config"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// RequestBuilder assembles create and update session requests.
type RequestBuilder struct {
	cfg        config.KlarnaConfig
	baseURL    string
	converter  *MoneyConverter
	aggregator *AdjustmentAggregator
	lines      *LineItemBuilder
	hooks      Hooks
}

// NewRequestBuilder wires the builder. baseURL is the public site URL used
// to make the terms path absolute.
func NewRequestBuilder(
	cfg config.KlarnaConfig,
	baseURL string,
	converter *MoneyConverter,
	aggregator *AdjustmentAggregator,
	hooks Hooks,
) *RequestBuilder {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &RequestBuilder{
		cfg:        cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		converter:  converter,
		aggregator: aggregator,
		lines:      NewLineItemBuilder(converter, aggregator),
		hooks:      hooks,
	}
}

// Lines exposes the order line builder for captures.
func (b *RequestBuilder) Lines() *LineItemBuilder {
	return b.lines
}

// ValidateMerchantURLs fails with an invalid argument error naming the first
// missing key.
func ValidateMerchantURLs(urls paymentgateway.MerchantURLs) error {
	required := []struct {
		key   string
		value string
	}{
		{"checkout", urls.Checkout},
		{"confirmation", urls.Confirmation},
		{"push", urls.Push},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.NewInvalidArgumentError(
				fmt.Sprintf("missing required key %s in merchant URLs", r.key), r.key)
		}
	}
	return nil
}

// Build validates urls before doing anything else, then assembles the
// request and passes it through the BeforeSessionRequestSend hook. A terms
// URL in urls wins over the configured terms path.
func (b *RequestBuilder) Build(ctx context.Context, o *order.Order, urls paymentgateway.MerchantURLs) (*paymentgateway.SessionRequest, error) {
	if err := ValidateMerchantURLs(urls); err != nil {
		return nil, err
	}

	orderAmount, err := b.converter.ToMinorUnits(o.Total())
	if err != nil {
		return nil, err
	}

	lines, err := b.lines.Build(o)
	if err != nil {
		return nil, err
	}

	taxAmount, err := b.orderTaxAmount(o)
	if err != nil {
		return nil, err
	}

	terms := urls.Terms
	if strings.TrimSpace(terms) == "" {
		terms = b.cfg.TermsPath
	}
	terms, err = b.absoluteURL(terms)
	if err != nil {
		return nil, err
	}

	reference1 := o.OrderNumber()
	if reference1 == "" {
		reference1 = o.IDString()
	}

	req := &paymentgateway.SessionRequest{
		PurchaseCountry:  b.cfg.PurchaseCountry,
		PurchaseCurrency: o.Currency(),
		Name:             b.storeName(o),
		Locale:           b.cfg.Locale,
		OrderAmount:      orderAmount,
		OrderTaxAmount:   taxAmount,
		MerchantURLs: paymentgateway.MerchantURLs{
			Terms:        terms,
			Checkout:     urls.Checkout,
			Confirmation: urls.Confirmation,
			Push:         urls.Push,
		},
		MerchantReference1: reference1,
		MerchantReference2: o.IDString(),
		Options: paymentgateway.Options{
			AllowSeparateShippingAddress: b.cfg.AllowSeparateShippingAddress,
		},
		OrderLines: lines,
	}

	if len(b.cfg.AllowedCustomerTypes) > 0 {
		req.Options.AllowedCustomerTypes = append([]string(nil), b.cfg.AllowedCustomerTypes...)
	}

	if profile := o.BillingProfile(); profile != nil {
		req.BillingAddress = ToProviderAddress(profile)
		if o.Email() != "" {
			req.BillingAddress[AddressKeyEmail] = o.Email()
		}
	}

	return b.hooks.BeforeSessionRequestSend(ctx, o, req)
}

// DefaultMerchantURLs expands the configured URL templates for o.
func (b *RequestBuilder) DefaultMerchantURLs(o *order.Order) (paymentgateway.MerchantURLs, error) {
	var urls paymentgateway.MerchantURLs
	targets := []struct {
		tpl string
		dst *string
	}{
		{b.cfg.MerchantURLs.Checkout, &urls.Checkout},
		{b.cfg.MerchantURLs.Confirmation, &urls.Confirmation},
		{b.cfg.MerchantURLs.Push, &urls.Push},
	}
	for _, t := range targets {
		if t.tpl == "" {
			continue
		}
		u, err := b.absoluteURL(strings.ReplaceAll(t.tpl, "{order_id}", o.IDString()))
		if err != nil {
			return paymentgateway.MerchantURLs{}, err
		}
		*t.dst = u
	}
	return urls, nil
}

func (b *RequestBuilder) orderTaxAmount(o *order.Order) (int64, error) {
	total, err := b.aggregator.Total(o.CollectAdjustments(), []order.AdjustmentType{order.AdjustmentTypeTax}, false)
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return b.converter.ToMinorUnits(*total)
}

func (b *RequestBuilder) storeName(o *order.Order) string {
	if o.StoreName() != "" {
		return o.StoreName()
	}
	return b.cfg.StoreName
}

// absoluteURL leaves absolute URLs alone and prefixes paths with the base
// URL. A relative path without a base URL is a configuration error.
func (b *RequestBuilder) absoluteURL(path string) (string, error) {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path, nil
	}
	if b.baseURL == "" {
		return "", errors.NewConfigurationError(
			"server base_url is required to build merchant URLs", "path="+path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path, nil
}
