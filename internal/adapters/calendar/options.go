package calendar

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithMaxResults caps the number of events returned per sync.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = int64(n)
		}
	}
}

// WithLookahead sets how far ahead of now events are fetched.
func WithLookahead(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.lookahead = d
		}
	}
}

// WithEndpoint points the client at a different API base URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithHTTPClient sets the transport wrapped by the OAuth2 client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock overrides the time source used for the sync window.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
