package usecases

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type GetSessionUseCase struct {
	clients paymentgateway.ClientProvider
	logger  logger.Interface
}

func NewGetSessionUseCase(clients paymentgateway.ClientProvider, logger logger.Interface) *GetSessionUseCase {
	return &GetSessionUseCase{clients: clients, logger: logger}
}

// Execute returns the provider's current view of the session. A stale id
// surfaces as a not found error.
func (uc *GetSessionUseCase) Execute(ctx context.Context, sessionID string) (*paymentgateway.RemoteSession, error) {
	if sessionID == "" {
		return nil, apperrors.NewInvalidArgumentError("session id is required")
	}

	client, err := uc.clients.Client()
	if err != nil {
		return nil, err
	}

	session, err := client.FetchSession(ctx, sessionID)
	if err != nil {
		if apperrors.IsRemoteNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("checkout session not found", sessionID)
		}
		uc.logger.Warnw("failed to fetch checkout session", "session_id", sessionID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to fetch checkout session", err)
	}
	return session, nil
}
