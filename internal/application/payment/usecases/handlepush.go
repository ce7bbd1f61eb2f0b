package usecases

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

// HandlePushUseCase processes provider push notifications. The provider
// expects a success response regardless of the outcome, so failures are
// logged and never returned.
type HandlePushUseCase struct {
	acknowledgeUC *AcknowledgeOrderUseCase
	logger        logger.Interface
}

func NewHandlePushUseCase(acknowledgeUC *AcknowledgeOrderUseCase, logger logger.Interface) *HandlePushUseCase {
	return &HandlePushUseCase{
		acknowledgeUC: acknowledgeUC,
		logger:        logger,
	}
}

// Execute returns the payment for sessionID, or nil when nothing could be
// recorded.
func (uc *HandlePushUseCase) Execute(ctx context.Context, sessionID string) *payment.Payment {
	if sessionID == "" {
		uc.logger.Errorw("cannot acknowledge checkout order: no order id provided")
		return nil
	}

	p, err := uc.acknowledgeUC.Execute(ctx, AcknowledgeOrderCommand{SessionID: sessionID})
	if err != nil {
		uc.logger.Errorw("push notification not processed", "session_id", sessionID, "error", err)
		return nil
	}
	return p
}
