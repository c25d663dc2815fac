package remote

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the HTTPSource.
type Option func(*HTTPSource)

// WithTimeout bounds each remote request.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}
