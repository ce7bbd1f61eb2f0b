package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateSessionUC struct {
	result *usecases.CreateOrUpdateSessionResult
	err    error
	got    usecases.CreateOrUpdateSessionCommand
}

func (m *mockCreateSessionUC) Execute(ctx context.Context, cmd usecases.CreateOrUpdateSessionCommand) (*usecases.CreateOrUpdateSessionResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetSessionUC struct {
	result *paymentgateway.RemoteSession
	err    error
}

func (m *mockGetSessionUC) Execute(ctx context.Context, sessionID string) (*paymentgateway.RemoteSession, error) {
	return m.result, m.err
}

type mockHandleReturnUC struct {
	result *usecases.HandleReturnResult
	err    error
}

func (m *mockHandleReturnUC) Execute(ctx context.Context, orderID uint) (*usecases.HandleReturnResult, error) {
	return m.result, m.err
}

type mockHandlePushUC struct {
	result    *payment.Payment
	sessionID string
}

func (m *mockHandlePushUC) Execute(ctx context.Context, sessionID string) *payment.Payment {
	m.sessionID = sessionID
	return m.result
}

// =====================================================================
// Test helpers
// =====================================================================

func createTestPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(7, sharedvo.MustParseMoney("120.50", "SEK"), "sess-1", "checkout_complete", true)
	require.NoError(t, err)
	p.SetID(3)
	return p
}

func newTestCheckoutHandler(
	createUC createSessionUseCase,
	getUC getSessionUseCase,
	returnUC handleReturnUseCase,
	pushUC handlePushUseCase,
) *CheckoutHandler {
	return NewCheckoutHandler(createUC, getUC, returnUC, pushUC, testutil.NewMockLogger())
}

// =====================================================================
// TestCheckoutHandler_CreateSession
// =====================================================================

func TestCheckoutHandler_CreateSession_Created(t *testing.T) {
	mockUC := &mockCreateSessionUC{result: &usecases.CreateOrUpdateSessionResult{
		SessionID:   "sess-1",
		HTMLSnippet: "<div>checkout</div>",
		Created:     true,
	}}
	handler := newTestCheckoutHandler(mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/7/session", nil)
	testutil.SetURLParam(c, "order_id", "7")

	handler.CreateSession(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(7), mockUC.got.OrderID)
	assert.Nil(t, mockUC.got.MerchantURLs)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data SessionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "sess-1", data.SessionID)
	assert.Equal(t, "<div>checkout</div>", data.HTMLSnippet)
}

func TestCheckoutHandler_CreateSession_UpdatedWithMerchantURLs(t *testing.T) {
	mockUC := &mockCreateSessionUC{result: &usecases.CreateOrUpdateSessionResult{SessionID: "sess-1"}}
	handler := newTestCheckoutHandler(mockUC, nil, nil, nil)

	reqBody := CreateSessionRequest{MerchantURLs: &MerchantURLsRequest{
		Terms:        "https://shop.example/terms",
		Checkout:     "https://shop.example/checkout",
		Confirmation: "https://shop.example/done",
		Push:         "https://shop.example/push?klarna_order_id={checkout.order.id}",
	}}
	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/7/session", reqBody)
	testutil.SetURLParam(c, "order_id", "7")

	handler.CreateSession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockUC.got.MerchantURLs)
	assert.Equal(t, "https://shop.example/done", mockUC.got.MerchantURLs.Confirmation)
	assert.Equal(t, "https://shop.example/terms", mockUC.got.MerchantURLs.Terms)
}

func TestCheckoutHandler_CreateSession_TermsOptional(t *testing.T) {
	mockUC := &mockCreateSessionUC{result: &usecases.CreateOrUpdateSessionResult{SessionID: "sess-1", Created: true}}
	handler := newTestCheckoutHandler(mockUC, nil, nil, nil)

	reqBody := map[string]interface{}{"merchant_urls": map[string]string{
		"checkout":     "https://shop.example/checkout",
		"confirmation": "https://shop.example/done",
		"push":         "https://shop.example/push",
	}}
	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/7/session", reqBody)
	testutil.SetURLParam(c, "order_id", "7")

	handler.CreateSession(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockUC.got.MerchantURLs)
	assert.Empty(t, mockUC.got.MerchantURLs.Terms)
	assert.Equal(t, "https://shop.example/push", mockUC.got.MerchantURLs.Push)
}

func TestCheckoutHandler_CreateSession_InvalidMerchantURLs(t *testing.T) {
	handler := newTestCheckoutHandler(&mockCreateSessionUC{}, nil, nil, nil)

	tests := []struct {
		name string
		urls map[string]string
	}{
		{"missing checkout", map[string]string{
			"confirmation": "https://shop.example/done",
			"push":         "https://shop.example/push",
		}},
		{"malformed terms", map[string]string{
			"terms":        "not a url",
			"checkout":     "https://shop.example/checkout",
			"confirmation": "https://shop.example/done",
			"push":         "https://shop.example/push",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBody := map[string]interface{}{"merchant_urls": tt.urls}
			c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/7/session", reqBody)
			testutil.SetURLParam(c, "order_id", "7")

			handler.CreateSession(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCheckoutHandler_CreateSession_InvalidOrderID(t *testing.T) {
	handler := newTestCheckoutHandler(&mockCreateSessionUC{}, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/abc/session", nil)
	testutil.SetURLParam(c, "order_id", "abc")

	handler.CreateSession(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_CreateSession_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"order not found", errors.NewNotFoundError("order not found"), http.StatusNotFound},
		{"configuration", errors.NewConfigurationError("missing merchant url"), http.StatusInternalServerError},
		{"remote", errors.NewRemoteError("provider unavailable"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestCheckoutHandler(&mockCreateSessionUC{err: tt.err}, nil, nil, nil)

			c, w := testutil.NewTestContext(http.MethodPost, "/checkout/orders/7/session", nil)
			testutil.SetURLParam(c, "order_id", "7")

			handler.CreateSession(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
		})
	}
}

// =====================================================================
// TestCheckoutHandler_GetSession
// =====================================================================

func TestCheckoutHandler_GetSession_Success(t *testing.T) {
	mockUC := &mockGetSessionUC{result: &paymentgateway.RemoteSession{
		ID:                 "sess-1",
		Status:             "checkout_incomplete",
		PurchaseCurrency:   "SEK",
		OrderAmount:        12050,
		MerchantReference2: "7",
	}}
	handler := newTestCheckoutHandler(nil, mockUC, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/sessions/sess-1", nil)
	testutil.SetURLParam(c, "session_id", "sess-1")

	handler.GetSession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var data RemoteSessionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(12050), data.OrderAmount)
	assert.Equal(t, "7", data.MerchantReference2)
}

func TestCheckoutHandler_GetSession_RemoteNotFound(t *testing.T) {
	handler := newTestCheckoutHandler(nil, &mockGetSessionUC{err: errors.NewRemoteNotFoundError("unknown session")}, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/sessions/gone", nil)
	testutil.SetURLParam(c, "session_id", "gone")

	handler.GetSession(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =====================================================================
// TestCheckoutHandler_Confirmation
// =====================================================================

func TestCheckoutHandler_Confirmation_JSON(t *testing.T) {
	p := createTestPayment(t)
	handler := newTestCheckoutHandler(nil, nil, &mockHandleReturnUC{result: &usecases.HandleReturnResult{
		Payment:     p,
		HTMLSnippet: "<div>thanks</div>",
	}}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/orders/7/confirmation", nil)
	testutil.SetURLParam(c, "order_id", "7")

	handler.Confirmation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var data ConfirmationResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotNil(t, data.Payment)
	assert.Equal(t, uint(3), data.Payment.ID)
	assert.Equal(t, "120.5", data.Payment.Amount)
	assert.Equal(t, "SEK", data.Payment.Currency)
	assert.Equal(t, "<div>thanks</div>", data.HTMLSnippet)
}

func TestCheckoutHandler_Confirmation_HTML(t *testing.T) {
	handler := newTestCheckoutHandler(nil, nil, &mockHandleReturnUC{result: &usecases.HandleReturnResult{
		Payment:     createTestPayment(t),
		HTMLSnippet: "<div>thanks</div>",
	}}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/orders/7/confirmation", nil)
	c.Request.Header.Set("Accept", "text/html")
	testutil.SetURLParam(c, "order_id", "7")

	handler.Confirmation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<div>thanks</div>", w.Body.String())
}

func TestCheckoutHandler_Confirmation_GatewayError(t *testing.T) {
	handler := newTestCheckoutHandler(nil, nil, &mockHandleReturnUC{err: errors.NewPaymentGatewayError("checkout could not be completed")}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/checkout/orders/7/confirmation", nil)
	testutil.SetURLParam(c, "order_id", "7")

	handler.Confirmation(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "checkout could not be completed", resp.Error.Message)
}

// =====================================================================
// TestCheckoutHandler_Push
// =====================================================================

func TestCheckoutHandler_Push_Processed(t *testing.T) {
	pushUC := &mockHandlePushUC{result: createTestPayment(t)}
	handler := newTestCheckoutHandler(nil, nil, nil, pushUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/push", nil)
	testutil.SetQueryParams(c, map[string]string{"klarna_order_id": "sess-1"})

	handler.Push(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", pushUC.sessionID)
}

func TestCheckoutHandler_Push_AlwaysOK(t *testing.T) {
	pushUC := &mockHandlePushUC{}
	handler := newTestCheckoutHandler(nil, nil, nil, pushUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout/push", nil)

	handler.Push(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, pushUC.sessionID)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}
