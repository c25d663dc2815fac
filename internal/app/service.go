// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/crewmatch/internal/adapters/calendar"
	eventqueue "github.com/okian/crewmatch/internal/adapters/mq/queue"
	workerpool "github.com/okian/crewmatch/internal/adapters/mq/worker"
	"github.com/okian/crewmatch/internal/adapters/realtime"
	"github.com/okian/crewmatch/internal/adapters/repository"
	"github.com/okian/crewmatch/internal/domain/dedupe"
	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

const (
	defaultQueueSize    = 10_000
	defaultDedupeSize   = 50_000
	defaultHistoryLimit = 50
	stopTimeout         = 10 * time.Second
)

// Service implements the API dependencies for matching, groups and events.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	selector *matching.Selector
	deduper  dedupe.Deduper
	queue    eventqueue.Queue
	pool     *workerpool.Pool
	hub      *realtime.Hub
	calendar calendar.Fetcher

	// Configuration
	remote         matching.CandidateSource
	fallbackPool   []model.Profile
	candidateLimit int
	pageSize       int
	historyLimit   int
	workerCount    int
	queueSize      int
	dedupeSize     int

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		candidateLimit: matching.DefaultCandidateLimit,
		pageSize:       matching.DefaultPageSize,
		historyLimit:   defaultHistoryLimit,
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting crewmatch service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.logger.Info(ctx, "using in-memory store")
	}

	remote := s.remote
	if remote == nil {
		remote = matching.NewStoreSource(s.store, s.candidateLimit)
	}
	s.selector = matching.NewSelector(
		matching.WithRemote(remote),
		matching.WithFallbackPool(s.fallbackPool),
		matching.WithLogger(s.logger.Named("matching")),
	)

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.hub = realtime.NewHub()

	// Workers outlive the start request; Stop cancels them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.hub)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "crewmatch service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("calendar", s.calendar != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping crewmatch service...")

	// Drain pending fan-out before subscribers are dropped.
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}
	s.cancel()

	if s.hub != nil {
		s.hub.Close()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
		s.store = nil
	}

	s.started = false
	s.logger.Info(ctx, "crewmatch service stopped")
}

// Hub returns the realtime hub used to stream group messages.
func (s *Service) Hub() *realtime.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"pageSize":    s.pageSize,
		"calendar":    s.calendar != nil,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["subscribers"] = s.hub.Total()
		stats["messagesDelivered"] = s.pool.Processed()
		stats["dedupeEntries"] = s.deduper.Size()

		if n, err := s.store.CountProfiles(ctx); err == nil {
			stats["totalProfiles"] = n
			metrics.UpdateProfilesTotal(n)
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// running returns the live components or ErrNotStarted.
func (s *Service) running() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
