package klarna

import (
	"errors"
	"net/http"

	"github.com/stremovskyy/recorder"

	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type Option func(*Client) error

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithRecorder stores raw request and response bodies keyed by request id.
func WithRecorder(r recorder.Recorder) Option {
	return func(c *Client) error {
		c.recorder = r
		return nil
	}
}

func WithLogger(log logger.Interface) Option {
	return func(c *Client) error {
		if log == nil {
			return errors.New("logger is nil")
		}
		c.logger = log
		return nil
	}
}
