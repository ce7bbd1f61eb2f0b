package payment

import (
	"strconv"

	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/biztime"
)

const (
	EventTypePaymentAuthorized   = "payment.authorized"
	EventTypePaymentCaptured     = "payment.captured"
	EventTypeOrderAmountMismatch = "payment.order_amount_mismatch"
)

type PaymentAuthorizedEvent struct {
	events.BaseEvent
	PaymentID uint
	OrderID   uint
	RemoteID  string
	Amount    sharedvo.Money
}

func NewPaymentAuthorizedEvent(p *Payment) *PaymentAuthorizedEvent {
	return &PaymentAuthorizedEvent{
		BaseEvent: newBaseEvent(p, EventTypePaymentAuthorized),
		PaymentID: p.ID(),
		OrderID:   p.OrderID(),
		RemoteID:  p.RemoteID(),
		Amount:    p.Amount(),
	}
}

type PaymentCapturedEvent struct {
	events.BaseEvent
	PaymentID uint
	OrderID   uint
	RemoteID  string
	Amount    sharedvo.Money
	CaptureID string
}

func NewPaymentCapturedEvent(p *Payment) *PaymentCapturedEvent {
	captureID := ""
	if p.CaptureID() != nil {
		captureID = *p.CaptureID()
	}
	return &PaymentCapturedEvent{
		BaseEvent: newBaseEvent(p, EventTypePaymentCaptured),
		PaymentID: p.ID(),
		OrderID:   p.OrderID(),
		RemoteID:  p.RemoteID(),
		Amount:    p.Amount(),
		CaptureID: captureID,
	}
}

// OrderAmountMismatchEvent reports a provider total different from the
// order total. The provider total was used for the payment.
type OrderAmountMismatchEvent struct {
	events.BaseEvent
	PaymentID     uint
	OrderID       uint
	RemoteID      string
	ProviderTotal sharedvo.Money
	OrderTotal    sharedvo.Money
}

func NewOrderAmountMismatchEvent(p *Payment, orderTotal sharedvo.Money) *OrderAmountMismatchEvent {
	return &OrderAmountMismatchEvent{
		BaseEvent:     newBaseEvent(p, EventTypeOrderAmountMismatch),
		PaymentID:     p.ID(),
		OrderID:       p.OrderID(),
		RemoteID:      p.RemoteID(),
		ProviderTotal: p.Amount(),
		OrderTotal:    orderTotal,
	}
}

func newBaseEvent(p *Payment, eventType string) events.BaseEvent {
	return events.BaseEvent{
		AggregateID: strconv.FormatUint(uint64(p.ID()), 10),
		EventType:   eventType,
		OccurredAt:  biztime.NowUTC(),
	}
}
