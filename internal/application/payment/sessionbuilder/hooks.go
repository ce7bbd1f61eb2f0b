package sessionbuilder

import (
	"context"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
)

// Hooks are synchronous extension points around the checkout flow.
type Hooks interface {
	// BeforeSessionRequestSend may alter the request right before it is sent.
	BeforeSessionRequestSend(ctx context.Context, o *order.Order, req *paymentgateway.SessionRequest) (*paymentgateway.SessionRequest, error)
	// ValidateCompletedSession may veto a completed session before it is
	// acknowledged.
	ValidateCompletedSession(ctx context.Context, o *order.Order, session *paymentgateway.RemoteSession) error
	// AlterBillingProfile runs after the address fields were copied from the
	// session, for custom profile fields.
	AlterBillingProfile(ctx context.Context, profile *order.Profile, session *paymentgateway.RemoteSession) error
}

// NopHooks leaves everything unchanged.
type NopHooks struct{}

func (NopHooks) BeforeSessionRequestSend(_ context.Context, _ *order.Order, req *paymentgateway.SessionRequest) (*paymentgateway.SessionRequest, error) {
	return req, nil
}

func (NopHooks) ValidateCompletedSession(context.Context, *order.Order, *paymentgateway.RemoteSession) error {
	return nil
}

func (NopHooks) AlterBillingProfile(context.Context, *order.Profile, *paymentgateway.RemoteSession) error {
	return nil
}
