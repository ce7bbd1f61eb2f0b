package email

import (
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type mismatchAlertSender interface {
	SendOrderAmountMismatchAlert(to string, alert MismatchAlert) error
}

// MismatchAlertHandler mails an operator when a checkout is recorded with a
// provider total different from the order total.
type MismatchAlertHandler struct {
	sender mismatchAlertSender
	to     string
	logger logger.Interface
}

func NewMismatchAlertHandler(sender mismatchAlertSender, to string, log logger.Interface) *MismatchAlertHandler {
	return &MismatchAlertHandler{
		sender: sender,
		to:     to,
		logger: log,
	}
}

func (h *MismatchAlertHandler) Handle(event events.DomainEvent) error {
	e, ok := event.(*payment.OrderAmountMismatchEvent)
	if !ok {
		return nil
	}

	alert := MismatchAlert{
		PaymentID:     e.PaymentID,
		OrderID:       e.OrderID,
		SessionID:     e.RemoteID,
		ProviderTotal: e.ProviderTotal.String(),
		OrderTotal:    e.OrderTotal.String(),
	}

	if err := h.sender.SendOrderAmountMismatchAlert(h.to, alert); err != nil {
		h.logger.Errorw("failed to send mismatch alert",
			"order_id", e.OrderID,
			"session_id", e.RemoteID,
			"error", err)
		return err
	}

	h.logger.Infow("mismatch alert sent", "order_id", e.OrderID, "to", h.to)
	return nil
}

// Subscribe registers the handler for mismatch events.
func (h *MismatchAlertHandler) Subscribe(dispatcher events.EventDispatcher) error {
	return dispatcher.Subscribe(payment.EventTypeOrderAmountMismatch, h)
}
