package klarna

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/klarnacheckout/internal/shared/utils/logutil"
)

// maxResponseSize caps provider response bodies (1MB).
const maxResponseSize = 1 << 20

// doJSON sends body as JSON to path and decodes a 2xx response into out
// when out is non-nil. Transient failures are retried with a doubling wait.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) (http.Header, error) {
	return c.send(ctx, method, path, body, out, c.retryAttempts, "")
}

// doJSONOnce is doJSON without retries. Order management actions that move
// money or state (acknowledge, capture) surface the first failure to the
// caller instead. An empty idempotencyKey gets a random one.
func (c *Client) doJSONOnce(ctx context.Context, method, path string, body any, out any, idempotencyKey string) (http.Header, error) {
	return c.send(ctx, method, path, body, out, 1, idempotencyKey)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, maxAttempts int, idempotencyKey string) (http.Header, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	target := c.baseURL + path
	// One key per logical call so retried POSTs are not applied twice.
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	var lastErr error
	wait := c.retryWait
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c.logger.Debugw("provider request", "method", method, "url", target, "attempt", attempt, "max_attempts", maxAttempts)

		header, raw, err := c.doOnce(ctx, method, target, body, out, idempotencyKey)
		if err == nil {
			return header, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts {
			c.logger.Warnw("provider request failed",
				"method", method,
				"url", target,
				"error", err,
				"response", logutil.Body(raw, c.logBodies),
			)
			return header, err
		}

		c.logger.Warnw("provider request retry", "method", method, "url", target, "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, target string, body, out any, idempotencyKey string) (http.Header, []byte, error) {
	requestID := uuid.NewString()

	var bodyBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("marshal json body: %w", err)
			c.recordError(ctx, requestID, err)
			return nil, nil, err
		}
		bodyBytes = b
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodPost {
		req.Header.Set("Klarna-Idempotency-Key", idempotencyKey)
	}
	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugw("provider request prepared",
		"request_id", requestID,
		"method", method,
		"url", target,
		"payload", logutil.Body(bodyBytes, c.logBodies),
	)
	c.recordRequest(ctx, requestID, bodyBytes)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordError(ctx, requestID, err)
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.recordError(ctx, requestID, err)
		return resp.Header, nil, err
	}
	c.recordResponse(ctx, requestID, raw)

	c.logger.Debugw("provider response received",
		"request_id", requestID,
		"status", resp.StatusCode,
		"response", logutil.Body(raw, c.logBodies),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: raw}
		c.recordError(ctx, requestID, statusErr)
		return resp.Header, raw, statusErr
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			decErr := fmt.Errorf("decode json response: %w", err)
			c.recordError(ctx, requestID, decErr)
			return resp.Header, raw, decErr
		}
	}

	return resp.Header, raw, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		return hs.StatusCode == http.StatusTooManyRequests || (hs.StatusCode >= 500 && hs.StatusCode != http.StatusNotImplemented)
	}
	// Per-call timeouts surface as deadline exceeded and are retried like
	// any other transport failure.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func (c *Client) recordRequest(ctx context.Context, requestID string, body []byte) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordRequest(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnw("cannot record provider request", "request_id", requestID, "error", err)
	}
}

func (c *Client) recordResponse(ctx context.Context, requestID string, body []byte) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordResponse(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnw("cannot record provider response", "request_id", requestID, "error", err)
	}
}

func (c *Client) recordError(ctx context.Context, requestID string, err error) {
	if c.recorder == nil || err == nil {
		return
	}
	if recErr := c.recorder.RecordError(ctx, nil, requestID, err, nil); recErr != nil {
		c.logger.Warnw("cannot record provider error", "request_id", requestID, "error", recErr)
	}
}
