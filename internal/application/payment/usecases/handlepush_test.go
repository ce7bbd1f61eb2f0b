package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

func TestHandlePush_DuplicateDeliveryCreatesOnePayment(t *testing.T) {
	o := newTestOrder(7, "50.00")
	f := newAckFixture(ReconciliationSettings{UpdateBillingProfile: true}, nil, o)
	f.client.On("FetchSession", mock.Anything, "K-1").Return(completeSession("K-1", 5000, "7"), nil)
	f.client.On("Acknowledge", mock.Anything, "K-1").Return(nil)

	uc := NewHandlePushUseCase(f.uc, logger.NewNopLogger())

	first := uc.Execute(context.Background(), "K-1")
	second := uc.Execute(context.Background(), "K-1")

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.payments.count())
	f.client.AssertNumberOfCalls(t, "Acknowledge", 1)
}

func TestHandlePush_SwallowsErrors(t *testing.T) {
	f := newAckFixture(ReconciliationSettings{}, nil)
	f.client.On("FetchSession", mock.Anything, "K-1").Return(nil, apperrors.NewRemoteError("down"))
	uc := NewHandlePushUseCase(f.uc, logger.NewNopLogger())

	assert.Nil(t, uc.Execute(context.Background(), "K-1"))
	assert.Nil(t, uc.Execute(context.Background(), ""))
	f.client.AssertNumberOfCalls(t, "FetchSession", 1)
}

func TestHandleReturn(t *testing.T) {
	o := newTestOrder(7, "50.00")
	o.SetRemoteSessionID("K-1")
	f := newAckFixture(ReconciliationSettings{}, nil, o)
	f.client.On("FetchSession", mock.Anything, "K-1").Return(completeSession("K-1", 5000, "7"), nil)
	f.client.On("Acknowledge", mock.Anything, "K-1").Return(nil)

	clients := staticClientProvider{client: f.client}
	uc := NewHandleReturnUseCase(f.orders, f.uc, NewGetCompletionSnippetUseCase(clients), logger.NewNopLogger())

	res, err := uc.Execute(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, res.Payment)
	assert.Equal(t, "<div>thanks</div>", res.HTMLSnippet)
}

func TestHandleReturn_WithoutSession(t *testing.T) {
	o := newTestOrder(7, "50.00")
	f := newAckFixture(ReconciliationSettings{}, nil, o)
	uc := NewHandleReturnUseCase(f.orders, f.uc, NewGetCompletionSnippetUseCase(staticClientProvider{client: f.client}), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), 7)
	assert.True(t, apperrors.IsPaymentGatewayError(err))
}

func TestGetCompletionSnippet_NoSession(t *testing.T) {
	uc := NewGetCompletionSnippetUseCase(staticClientProvider{client: new(mockSessionClient)})
	snippet, err := uc.Execute(context.Background(), newTestOrder(1, "1"))
	require.NoError(t, err)
	assert.Empty(t, snippet)
}
