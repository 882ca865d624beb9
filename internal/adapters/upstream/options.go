// Package upstream implements HTTP clients for the engine's source services.
package upstream

import (
	"net/http"
	"time"

	"github.com/infopulse/recommender/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout applied to every upstream request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom http.Client, e.g. for connection pooling
// tweaks or tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
