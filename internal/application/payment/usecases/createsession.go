package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type CreateOrUpdateSessionCommand struct {
	OrderID uint
	// MerchantURLs overrides the configured URL templates when non-nil.
	MerchantURLs *paymentgateway.MerchantURLs
}

type CreateOrUpdateSessionResult struct {
	SessionID   string
	HTMLSnippet string
	Created     bool
}

// CreateOrUpdateSessionUseCase opens the provider checkout for an order,
// reusing the session stored on the order when it is still valid.
type CreateOrUpdateSessionUseCase struct {
	orderRepo order.OrderRepository
	clients   paymentgateway.ClientProvider
	builder   *sessionbuilder.RequestBuilder
	logger    logger.Interface
}

func NewCreateOrUpdateSessionUseCase(
	orderRepo order.OrderRepository,
	clients paymentgateway.ClientProvider,
	builder *sessionbuilder.RequestBuilder,
	logger logger.Interface,
) *CreateOrUpdateSessionUseCase {
	return &CreateOrUpdateSessionUseCase{
		orderRepo: orderRepo,
		clients:   clients,
		builder:   builder,
		logger:    logger,
	}
}

func (uc *CreateOrUpdateSessionUseCase) Execute(ctx context.Context, cmd CreateOrUpdateSessionCommand) (*CreateOrUpdateSessionResult, error) {
	o, err := uc.orderRepo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	var urls paymentgateway.MerchantURLs
	if cmd.MerchantURLs != nil {
		urls = *cmd.MerchantURLs
	} else if urls, err = uc.builder.DefaultMerchantURLs(o); err != nil {
		return nil, err
	}

	req, err := uc.builder.Build(ctx, o, urls)
	if err != nil {
		return nil, err
	}

	client, err := uc.clients.Client()
	if err != nil {
		return nil, err
	}

	if sessionID, ok := o.RemoteSessionID(); ok {
		session, err := client.UpdateSession(ctx, sessionID, req)
		if err == nil {
			uc.logger.Infow("checkout session updated", "order_id", o.ID(), "session_id", session.ID)
			return &CreateOrUpdateSessionResult{SessionID: session.ID, HTMLSnippet: session.HTMLSnippet}, nil
		}
		if !apperrors.IsRemoteNotFoundError(err) {
			uc.logger.Errorw("failed to update checkout session", "order_id", o.ID(), "session_id", sessionID, "error", err)
			return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to update checkout session", err)
		}
		uc.logger.Infow("stored checkout session is no longer valid, creating a new one",
			"order_id", o.ID(),
			"session_id", sessionID,
		)
	}

	session, err := client.CreateSession(ctx, req)
	if err != nil {
		uc.logger.Errorw("failed to create checkout session", "order_id", o.ID(), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to create checkout session", err)
	}
	if session.ID == "" {
		return nil, apperrors.NewPaymentGatewayError("checkout session created without an id")
	}

	o.SetRemoteSessionID(session.ID)
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to store session id on order: %w", err)
	}

	uc.logger.Infow("checkout session created", "order_id", o.ID(), "session_id", session.ID)

	return &CreateOrUpdateSessionResult{
		SessionID:   session.ID,
		HTMLSnippet: session.HTMLSnippet,
		Created:     true,
	}, nil
}
