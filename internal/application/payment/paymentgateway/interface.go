// Package paymentgateway defines the checkout provider contract: the session
// client used by the use cases and the wire types exchanged with it. Field
// names of the wire types match the provider REST API exactly.
package paymentgateway

import (
	"context"
	"encoding/json"
)

// Remote session statuses. Only StatusCheckoutComplete is actionable.
const (
	StatusCheckoutIncomplete = "checkout_incomplete"
	StatusCheckoutComplete   = "checkout_complete"
	StatusCreated            = "created"
)

// Order line types sent for synthetic adjustment lines.
const (
	OrderLineTypeDiscount    = "discount"
	OrderLineTypeShippingFee = "shipping_fee"
)

// SessionClient talks to the provider for one credential set. Amounts are
// always in minor units.
type SessionClient interface {
	// CreateSession creates a session and re-fetches it so server computed
	// fields (id, snippet) are populated.
	CreateSession(ctx context.Context, req *SessionRequest) (*RemoteSession, error)
	// UpdateSession fails with a remote not found error when sessionID is stale.
	UpdateSession(ctx context.Context, sessionID string, req *SessionRequest) (*RemoteSession, error)
	FetchSession(ctx context.Context, sessionID string) (*RemoteSession, error)
	Acknowledge(ctx context.Context, sessionID string) error
	CreateCapture(ctx context.Context, sessionID string, req *CaptureRequest) (*Capture, error)
}

// ClientProvider returns the session client for the active configuration.
// Implementations cache clients per credential set.
type ClientProvider interface {
	Client() (SessionClient, error)
}

type MerchantURLs struct {
	Terms        string `json:"terms"`
	Checkout     string `json:"checkout"`
	Confirmation string `json:"confirmation"`
	Push         string `json:"push"`
}

type Options struct {
	AllowSeparateShippingAddress bool     `json:"allow_separate_shipping_address"`
	AllowedCustomerTypes         []string `json:"allowed_customer_types,omitempty"`
}

type OrderLine struct {
	Reference      string `json:"reference"`
	Name           string `json:"name"`
	Type           string `json:"type,omitempty"`
	Quantity       int64  `json:"quantity"`
	TaxRate        int64  `json:"tax_rate"`
	UnitPrice      int64  `json:"unit_price"`
	TotalTaxAmount int64  `json:"total_tax_amount"`
	TotalAmount    int64  `json:"total_amount"`
}

// Address is the provider's flat address object.
type Address map[string]string

// UnmarshalJSON keeps string values and drops everything else, so new or
// structured provider fields never break decoding.
func (a *Address) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}
	out := make(Address, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	*a = out
	return nil
}

type SessionRequest struct {
	PurchaseCountry    string       `json:"purchase_country"`
	PurchaseCurrency   string       `json:"purchase_currency"`
	Name               string       `json:"name"`
	Locale             string       `json:"locale"`
	OrderAmount        int64        `json:"order_amount"`
	OrderTaxAmount     int64        `json:"order_tax_amount"`
	MerchantURLs       MerchantURLs `json:"merchant_urls"`
	MerchantReference1 string       `json:"merchant_reference1"`
	MerchantReference2 string       `json:"merchant_reference2"`
	Options            Options      `json:"options"`
	OrderLines         []OrderLine  `json:"order_lines"`
	BillingAddress     Address      `json:"billing_address,omitempty"`
}

type RemoteSession struct {
	ID                 string      `json:"order_id"`
	Status             string      `json:"status"`
	PurchaseCountry    string      `json:"purchase_country,omitempty"`
	PurchaseCurrency   string      `json:"purchase_currency"`
	Locale             string      `json:"locale,omitempty"`
	OrderAmount        int64       `json:"order_amount"`
	OrderTaxAmount     int64       `json:"order_tax_amount"`
	BillingAddress     Address     `json:"billing_address,omitempty"`
	MerchantReference1 string      `json:"merchant_reference1,omitempty"`
	MerchantReference2 string      `json:"merchant_reference2"`
	HTMLSnippet        string      `json:"html_snippet,omitempty"`
	OrderLines         []OrderLine `json:"order_lines,omitempty"`
}

// IsComplete reports whether the customer finished the checkout.
func (s *RemoteSession) IsComplete() bool {
	return s.Status == StatusCheckoutComplete
}

type CaptureRequest struct {
	CapturedAmount int64       `json:"captured_amount"`
	Description    string      `json:"description,omitempty"`
	OrderLines     []OrderLine `json:"order_lines,omitempty"`

	// IdempotencyKey travels as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

type Capture struct {
	ID             string `json:"capture_id"`
	CapturedAmount int64  `json:"captured_amount"`
}
