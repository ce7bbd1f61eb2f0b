// Package klarna is the REST client for the hosted checkout and order
// management APIs.
package klarna

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/stremovskyy/recorder"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
	"github.com/orris-inc/klarnacheckout/internal/shared/version"
)

var userAgent = version.UserAgent("klarnacheckout")

// Config is one credential set and its transport settings.
type Config struct {
	Username      string
	Password      string
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryWait     time.Duration
	LogBodies     bool
}

// Client implements paymentgateway.SessionClient. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	baseURL       string
	username      string
	password      string
	timeout       time.Duration
	retryAttempts int
	retryWait     time.Duration
	logBodies     bool

	httpClient *http.Client
	recorder   recorder.Recorder
	logger     logger.Interface
}

var _ paymentgateway.SessionClient = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, apperrors.NewConfigurationError("checkout provider credentials are not configured")
	}
	if cfg.BaseURL == "" {
		return nil, apperrors.NewConfigurationError("checkout provider base URL is not configured")
	}

	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		username:      cfg.Username,
		password:      cfg.Password,
		timeout:       cfg.Timeout,
		retryAttempts: cfg.RetryAttempts,
		retryWait:     cfg.RetryWait,
		logBodies:     cfg.LogBodies,
		httpClient:    &http.Client{},
		logger:        logger.NewNopLogger(),
	}
	if c.retryAttempts <= 0 {
		c.retryAttempts = 1
	}
	if c.retryWait <= 0 {
		c.retryWait = 300 * time.Millisecond
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrorTypeConfiguration, "invalid checkout client option", err)
		}
	}
	return c, nil
}

// CreateSession creates a checkout order and re-reads it so server computed
// fields such as the snippet are populated.
func (c *Client) CreateSession(ctx context.Context, req *paymentgateway.SessionRequest) (*paymentgateway.RemoteSession, error) {
	var created paymentgateway.RemoteSession
	header, err := c.doJSON(ctx, http.MethodPost, checkoutOrdersPath, req, &created)
	if err != nil {
		return nil, mapError("create checkout order", err, false)
	}

	id := created.ID
	if id == "" {
		id = idFromLocation(header)
	}
	if id == "" {
		return nil, apperrors.NewRemoteError("create checkout order: response carries no order id")
	}
	return c.FetchSession(ctx, id)
}

func (c *Client) UpdateSession(ctx context.Context, sessionID string, req *paymentgateway.SessionRequest) (*paymentgateway.RemoteSession, error) {
	var session paymentgateway.RemoteSession
	if _, err := c.doJSON(ctx, http.MethodPost, checkoutOrderPath(sessionID), req, &session); err != nil {
		return nil, mapError("update checkout order", err, true)
	}
	if session.ID == "" {
		session.ID = sessionID
	}
	return &session, nil
}

func (c *Client) FetchSession(ctx context.Context, sessionID string) (*paymentgateway.RemoteSession, error) {
	var session paymentgateway.RemoteSession
	if _, err := c.doJSON(ctx, http.MethodGet, checkoutOrderPath(sessionID), nil, &session); err != nil {
		return nil, mapError("fetch checkout order", err, false)
	}
	if session.ID == "" {
		session.ID = sessionID
	}
	return &session, nil
}

func (c *Client) Acknowledge(ctx context.Context, sessionID string) error {
	if _, err := c.doJSONOnce(ctx, http.MethodPost, acknowledgePath(sessionID), nil, nil, ""); err != nil {
		return mapError("acknowledge order", err, false)
	}
	return nil
}

// CreateCapture returns the capture id from the Capture-Id header, falling
// back to the last segment of Location. req.IdempotencyKey, when set, is
// sent as the provider idempotency key so a repeated request for the same
// capture is not settled twice.
func (c *Client) CreateCapture(ctx context.Context, sessionID string, req *paymentgateway.CaptureRequest) (*paymentgateway.Capture, error) {
	header, err := c.doJSONOnce(ctx, http.MethodPost, capturesPath(sessionID), req, nil, req.IdempotencyKey)
	if err != nil {
		return nil, mapError("create capture", err, false)
	}

	id := ""
	if header != nil {
		id = header.Get("Capture-Id")
	}
	if id == "" {
		id = idFromLocation(header)
	}
	return &paymentgateway.Capture{ID: id, CapturedAmount: req.CapturedAmount}, nil
}

func idFromLocation(header http.Header) string {
	if header == nil {
		return ""
	}
	loc := strings.TrimRight(header.Get("Location"), "/")
	if loc == "" {
		return ""
	}
	return path.Base(loc)
}
