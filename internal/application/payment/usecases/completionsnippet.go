package usecases

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// GetCompletionSnippetUseCase returns the provider HTML shown on the
// confirmation page.
type GetCompletionSnippetUseCase struct {
	clients paymentgateway.ClientProvider
}

func NewGetCompletionSnippetUseCase(clients paymentgateway.ClientProvider) *GetCompletionSnippetUseCase {
	return &GetCompletionSnippetUseCase{clients: clients}
}

// Execute returns an empty snippet when the order has no session.
func (uc *GetCompletionSnippetUseCase) Execute(ctx context.Context, o *order.Order) (string, error) {
	sessionID, ok := o.RemoteSessionID()
	if !ok {
		return "", nil
	}

	client, err := uc.clients.Client()
	if err != nil {
		return "", err
	}

	session, err := client.FetchSession(ctx, sessionID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to fetch checkout session", err)
	}
	return session.HTMLSnippet, nil
}
