package realtime

import "github.com/okian/crewmatch/pkg/logger"

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithSubscriberBuffer sets how many undelivered messages a subscriber may hold.
func WithSubscriberBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}
