package usecases

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type HandleReturnResult struct {
	Payment     *payment.Payment
	HTMLSnippet string
}

// HandleReturnUseCase runs when the customer is redirected to the
// confirmation page. It acknowledges the order and returns the provider's
// confirmation snippet.
type HandleReturnUseCase struct {
	orderRepo     order.OrderRepository
	acknowledgeUC *AcknowledgeOrderUseCase
	snippetUC     *GetCompletionSnippetUseCase
	logger        logger.Interface
}

func NewHandleReturnUseCase(
	orderRepo order.OrderRepository,
	acknowledgeUC *AcknowledgeOrderUseCase,
	snippetUC *GetCompletionSnippetUseCase,
	logger logger.Interface,
) *HandleReturnUseCase {
	return &HandleReturnUseCase{
		orderRepo:     orderRepo,
		acknowledgeUC: acknowledgeUC,
		snippetUC:     snippetUC,
		logger:        logger,
	}
}

func (uc *HandleReturnUseCase) Execute(ctx context.Context, orderID uint) (*HandleReturnResult, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	sessionID, ok := o.RemoteSessionID()
	if !ok {
		return nil, apperrors.NewPaymentGatewayError("order has no checkout session", o.IDString())
	}

	p, err := uc.acknowledgeUC.Execute(ctx, AcknowledgeOrderCommand{SessionID: sessionID, Order: o})
	if err != nil {
		uc.logger.Warnw("checkout return failed", "order_id", orderID, "session_id", sessionID, "error", err)
		if apperrors.IsPaymentGatewayError(err) || apperrors.IsConfigurationError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "checkout could not be completed", err)
	}

	snippet, err := uc.snippetUC.Execute(ctx, o)
	if err != nil {
		// The payment is recorded; a missing snippet only degrades the page.
		uc.logger.Warnw("failed to load confirmation snippet", "order_id", orderID, "session_id", sessionID, "error", err)
	}

	return &HandleReturnResult{Payment: p, HTMLSnippet: snippet}, nil
}
