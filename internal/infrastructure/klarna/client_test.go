package klarna

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stremovskyy/recorder"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Username:      "PK_test",
		Password:      "shared-secret",
		BaseURL:       srv.URL,
		Timeout:       2 * time.Second,
		RetryAttempts: 3,
		RetryWait:     time.Millisecond,
	}, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_CreateSessionRefetches(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/checkout/v3/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "PK_test", user)
		assert.Equal(t, "shared-secret", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Klarna-Idempotency-Key"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &created))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id":"K-1","status":"checkout_incomplete"}`))
	})
	mux.HandleFunc("/checkout/v3/orders/K-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{
			"order_id": "K-1",
			"status": "checkout_incomplete",
			"purchase_currency": "USD",
			"order_amount": 1999,
			"merchant_reference2": "42",
			"html_snippet": "<div id=\"klarna-checkout\"></div>",
			"billing_address": {"given_name": "Ada", "country": "us", "attributes": {"x": 1}}
		}`))
	})
	c := newTestClient(t, mux)

	session, err := c.CreateSession(context.Background(), &paymentgateway.SessionRequest{
		PurchaseCountry:    "US",
		PurchaseCurrency:   "USD",
		OrderAmount:        1999,
		MerchantReference2: "42",
		OrderLines:         []paymentgateway.OrderLine{{Reference: "W-1", Name: "Widget", Quantity: 2, UnitPrice: 1000, TotalAmount: 1999}},
	})
	require.NoError(t, err)

	assert.Equal(t, "K-1", session.ID)
	assert.Equal(t, `<div id="klarna-checkout"></div>`, session.HTMLSnippet)
	assert.Equal(t, "Ada", session.BillingAddress["given_name"])
	_, hasStructured := session.BillingAddress["attributes"]
	assert.False(t, hasStructured)

	assert.Equal(t, float64(1999), created["order_amount"])
	assert.Equal(t, "42", created["merchant_reference2"])
	_, hasBilling := created["billing_address"]
	assert.False(t, hasBilling, "billing_address must be omitted when unset")
}

func TestClient_CreateSessionIDFromLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/checkout/v3/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://api.example/checkout/v3/orders/K-7")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/checkout/v3/orders/K-7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"order_id":"K-7","status":"checkout_incomplete"}`))
	})
	c := newTestClient(t, mux)

	session, err := c.CreateSession(context.Background(), &paymentgateway.SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "K-7", session.ID)
}

func TestClient_UpdateSessionErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		isNotFound bool
	}{
		{"not found", http.StatusNotFound, `{"error_code":"NOT_FOUND","correlation_id":"c-1"}`, true},
		{"read only order", http.StatusForbidden, `{"error_code":"READ_ONLY_ORDER"}`, true},
		{"bad value", http.StatusBadRequest, `{"error_code":"BAD_VALUE","error_messages":["Bad value: order_lines"],"correlation_id":"c-2"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/checkout/v3/orders/K-1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.UpdateSession(context.Background(), "K-1", &paymentgateway.SessionRequest{})
			require.Error(t, err)
			assert.Equal(t, tt.isNotFound, apperrors.IsRemoteNotFoundError(err))
			assert.Equal(t, !tt.isNotFound, apperrors.IsRemoteError(err))
		})
	}
}

func TestClient_ErrorDetails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"BAD_VALUE","correlation_id":"c-2"}`))
	}))

	err := c.Acknowledge(context.Background(), "K-1")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "status=400")
	assert.Contains(t, appErr.Details, "error_code=BAD_VALUE")
	assert.Contains(t, appErr.Details, "correlation_id=c-2")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"order_id":"K-1","status":"checkout_complete"}`))
	}))

	session, err := c.FetchSession(context.Background(), "K-1")
	require.NoError(t, err)
	assert.True(t, session.IsComplete())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.FetchSession(context.Background(), "K-1")
	assert.True(t, apperrors.IsRemoteError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_OrderManagementActionsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{"acknowledge", http.StatusServiceUnavailable, func(c *Client) error {
			return c.Acknowledge(context.Background(), "K-1")
		}},
		{"capture", http.StatusBadGateway, func(c *Client) error {
			_, err := c.CreateCapture(context.Background(), "K-1", &paymentgateway.CaptureRequest{CapturedAmount: 5000})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.WriteHeader(tt.status)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			}))

			err := tt.call(c)
			assert.True(t, apperrors.IsRemoteError(err))
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_Acknowledge(t *testing.T) {
	var path, method string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.Acknowledge(context.Background(), "K-1"))
	assert.Equal(t, "/ordermanagement/v1/orders/K-1/acknowledge", path)
	assert.Equal(t, http.MethodPost, method)
}

func TestClient_CreateCapture(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		wantID string
	}{
		{"capture id header", map[string]string{"Capture-Id": "cap-1"}, "cap-1"},
		{"location header", map[string]string{"Location": "https://api.example/ordermanagement/v1/orders/K-1/captures/cap-2"}, "cap-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got paymentgateway.CaptureRequest
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ordermanagement/v1/orders/K-1/captures", r.URL.Path)
				assert.Equal(t, "capture-key-1", r.Header.Get("Klarna-Idempotency-Key"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(http.StatusCreated)
			}))

			capture, err := c.CreateCapture(context.Background(), "K-1", &paymentgateway.CaptureRequest{
				CapturedAmount: 5000,
				IdempotencyKey: "capture-key-1",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, capture.ID)
			assert.Equal(t, int64(5000), capture.CapturedAmount)
			assert.Equal(t, int64(5000), got.CapturedAmount)
		})
	}
}

func TestClient_RecordsTraffic(t *testing.T) {
	rec := &countingRecorder{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}), WithRecorder(rec))

	_ = c.Acknowledge(context.Background(), "K-1")
	assert.Equal(t, 1, rec.requests)
	assert.Equal(t, 1, rec.responses)
	assert.Equal(t, 1, rec.errors)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://api.example"})
	assert.True(t, apperrors.IsConfigurationError(err))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, NorthAmericaTestURL, BaseURL("US", true))
	assert.Equal(t, NorthAmericaLiveURL, BaseURL("us", false))
	assert.Equal(t, EuropeTestURL, BaseURL("SE", true))
	assert.Equal(t, EuropeLiveURL, BaseURL("DE", false))
}

type countingRecorder struct {
	requests  int
	responses int
	errors    int
}

func (r *countingRecorder) RecordRequest(context.Context, *string, string, []byte, map[string]string) error {
	r.requests++
	return nil
}

func (r *countingRecorder) RecordResponse(context.Context, *string, string, []byte, map[string]string) error {
	r.responses++
	return nil
}

func (r *countingRecorder) RecordError(context.Context, *string, string, error, map[string]string) error {
	r.errors++
	return nil
}

func (r *countingRecorder) RecordMetrics(context.Context, *string, string, map[string]string, map[string]string) error {
	return nil
}

func (r *countingRecorder) GetRequest(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (r *countingRecorder) GetResponse(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (r *countingRecorder) FindByTag(context.Context, string) ([]string, error) {
	return nil, nil
}

func (r *countingRecorder) Async() recorder.AsyncRecorder {
	return nil
}
