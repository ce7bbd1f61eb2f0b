package handlers

import (
	"time"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
)

type SessionResponse struct {
	SessionID   string `json:"session_id"`
	HTMLSnippet string `json:"html_snippet"`
	Created     bool   `json:"created"`
}

func ToSessionResponse(result *usecases.CreateOrUpdateSessionResult) *SessionResponse {
	return &SessionResponse{
		SessionID:   result.SessionID,
		HTMLSnippet: result.HTMLSnippet,
		Created:     result.Created,
	}
}

type RemoteSessionResponse struct {
	SessionID          string            `json:"session_id"`
	Status             string            `json:"status"`
	PurchaseCountry    string            `json:"purchase_country,omitempty"`
	PurchaseCurrency   string            `json:"purchase_currency"`
	OrderAmount        int64             `json:"order_amount"`
	OrderTaxAmount     int64             `json:"order_tax_amount"`
	MerchantReference1 string            `json:"merchant_reference1,omitempty"`
	MerchantReference2 string            `json:"merchant_reference2"`
	BillingAddress     map[string]string `json:"billing_address,omitempty"`
	HTMLSnippet        string            `json:"html_snippet,omitempty"`
}

func ToRemoteSessionResponse(s *paymentgateway.RemoteSession) *RemoteSessionResponse {
	return &RemoteSessionResponse{
		SessionID:          s.ID,
		Status:             s.Status,
		PurchaseCountry:    s.PurchaseCountry,
		PurchaseCurrency:   s.PurchaseCurrency,
		OrderAmount:        s.OrderAmount,
		OrderTaxAmount:     s.OrderTaxAmount,
		MerchantReference1: s.MerchantReference1,
		MerchantReference2: s.MerchantReference2,
		BillingAddress:     s.BillingAddress,
		HTMLSnippet:        s.HTMLSnippet,
	}
}

type PaymentResponse struct {
	ID           uint    `json:"id"`
	OrderID      uint    `json:"order_id"`
	State        string  `json:"state"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	RemoteID     string  `json:"remote_id"`
	RemoteState  string  `json:"remote_state"`
	Test         bool    `json:"test"`
	CaptureID    *string `json:"capture_id,omitempty"`
	AuthorizedAt string  `json:"authorized_at"`
	CapturedAt   *string `json:"captured_at,omitempty"`
}

func ToPaymentResponse(p *payment.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	resp := &PaymentResponse{
		ID:           p.ID(),
		OrderID:      p.OrderID(),
		State:        p.State().String(),
		Amount:       p.Amount().Amount().String(),
		Currency:     p.Amount().Currency(),
		RemoteID:     p.RemoteID(),
		RemoteState:  p.RemoteState(),
		Test:         p.IsTest(),
		CaptureID:    p.CaptureID(),
		AuthorizedAt: p.AuthorizedAt().Format(time.RFC3339),
	}
	if at := p.CapturedAt(); at != nil {
		s := at.Format(time.RFC3339)
		resp.CapturedAt = &s
	}
	return resp
}

type ConfirmationResponse struct {
	Payment     *PaymentResponse `json:"payment"`
	HTMLSnippet string           `json:"html_snippet"`
}
