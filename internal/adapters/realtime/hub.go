// Package realtime pushes chat messages to websocket subscribers of a group.
package realtime

import (
	"context"
	"sync"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

const defaultSubscriberBuffer = 32

// Subscription receives messages posted to one group.
type Subscription struct {
	GroupID string
	Email   string

	ch   chan model.Message
	hub  *Hub
	once sync.Once
}

// C returns the channel of delivered messages. It is closed on Close.
func (s *Subscription) C() <-chan model.Message {
	return s.ch
}

// Close removes the subscription from its hub.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Hub tracks subscribers per group and broadcasts to them. Slow subscribers
// lose messages rather than block delivery.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Subscription]struct{}
	count  int
	closed bool
	buffer int
	logger logger.Logger
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		groups: make(map[string]map[*Subscription]struct{}),
		buffer: defaultSubscriberBuffer,
		logger: logger.Get().Named("realtime"),
	}
	for _, opt := range opts {
		opt(h)
	}
	metrics.UpdateSubscribers(0)
	return h
}

// Subscribe registers a listener for groupID.
func (h *Hub) Subscribe(groupID, email string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	s := &Subscription{
		GroupID: groupID,
		Email:   email,
		ch:      make(chan model.Message, h.buffer),
		hub:     h,
	}
	subs, ok := h.groups[groupID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.groups[groupID] = subs
	}
	subs[s] = struct{}{}
	h.count++
	metrics.UpdateSubscribers(h.count)
	return s, nil
}

// Deliver implements the worker Deliverer by broadcasting m to its group.
func (h *Hub) Deliver(ctx context.Context, m model.Message) error { //nolint:gocritic // hugeParam: matches Deliverer
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}

	for s := range h.groups[m.GroupID] {
		select {
		case s.ch <- m:
		case <-ctx.Done():
			return ctx.Err()
		default:
			metrics.RecordBroadcastDropped()
			h.logger.Debug(ctx, "subscriber buffer full, message dropped",
				logger.String("group_id", m.GroupID),
				logger.String("email", s.Email),
			)
		}
	}
	return nil
}

// Subscribers returns how many listeners are registered for groupID.
func (h *Hub) Subscribers(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// Total returns the number of registered subscriptions.
func (h *Hub) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Close drops every subscription and rejects further ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for groupID, subs := range h.groups {
		for s := range subs {
			s.once.Do(func() { close(s.ch) })
		}
		delete(h.groups, groupID)
	}
	h.count = 0
	metrics.UpdateSubscribers(0)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s.once.Do(func() {
		close(s.ch)
		subs := h.groups[s.GroupID]
		if _, ok := subs[s]; !ok {
			return
		}
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.groups, s.GroupID)
		}
		h.count--
		metrics.UpdateSubscribers(h.count)
	})
}
