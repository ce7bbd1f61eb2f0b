package handlers

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
)

// Use case interfaces for CheckoutHandler and PaymentHandler

type createSessionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateOrUpdateSessionCommand) (*usecases.CreateOrUpdateSessionResult, error)
}

type getSessionUseCase interface {
	Execute(ctx context.Context, sessionID string) (*paymentgateway.RemoteSession, error)
}

type handleReturnUseCase interface {
	Execute(ctx context.Context, orderID uint) (*usecases.HandleReturnResult, error)
}

type handlePushUseCase interface {
	Execute(ctx context.Context, sessionID string) *payment.Payment
}

type capturePaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.CapturePaymentCommand) (*payment.Payment, error)
}
