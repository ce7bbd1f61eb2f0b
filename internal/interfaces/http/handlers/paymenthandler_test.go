package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

type mockCapturePaymentUC struct {
	result *payment.Payment
	err    error
	got    usecases.CapturePaymentCommand
}

func (m *mockCapturePaymentUC) Execute(ctx context.Context, cmd usecases.CapturePaymentCommand) (*payment.Payment, error) {
	m.got = cmd
	return m.result, m.err
}

func TestPaymentHandler_Capture_FullAmount(t *testing.T) {
	mockUC := &mockCapturePaymentUC{result: createTestPayment(t)}
	handler := NewPaymentHandler(mockUC, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/payments/3/capture", nil)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetOperatorContext(c, "ops@example.com")

	handler.Capture(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), mockUC.got.PaymentID)
	assert.Nil(t, mockUC.got.Amount)
}

func TestPaymentHandler_Capture_PartialAmount(t *testing.T) {
	mockUC := &mockCapturePaymentUC{result: createTestPayment(t)}
	handler := NewPaymentHandler(mockUC, testutil.NewMockLogger())

	reqBody := map[string]interface{}{"amount": "50.25", "currency": "sek"}
	c, w := testutil.NewTestContext(http.MethodPost, "/payments/3/capture", reqBody)
	testutil.SetURLParam(c, "id", "3")

	handler.Capture(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockUC.got.Amount)
	assert.Equal(t, "50.25", mockUC.got.Amount.Amount().String())
	assert.Equal(t, "SEK", mockUC.got.Amount.Currency())
}

func TestPaymentHandler_Capture_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"amount without currency", map[string]interface{}{"amount": "10"}},
		{"bad currency length", map[string]interface{}{"amount": "10", "currency": "KRONA"}},
		{"malformed amount", map[string]interface{}{"amount": "ten", "currency": "SEK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCapturePaymentUC{}
			handler := NewPaymentHandler(mockUC, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/payments/3/capture", tt.body)
			testutil.SetURLParam(c, "id", "3")

			handler.Capture(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, mockUC.got.PaymentID)
		})
	}
}

func TestPaymentHandler_Capture_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", errors.NewNotFoundError("payment not found"), http.StatusNotFound},
		{"already captured", errors.NewInvalidStateError("payment cannot be captured"), http.StatusConflict},
		{"currency mismatch", errors.NewValidationError("capture currency does not match payment"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPaymentHandler(&mockCapturePaymentUC{err: tt.err}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/payments/3/capture", nil)
			testutil.SetURLParam(c, "id", "3")

			handler.Capture(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
