package service

import (
	"github.com/okian/crewmatch/internal/adapters/calendar"
	"github.com/okian/crewmatch/internal/adapters/repository"
	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fan-out worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the fan-out queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the message idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the persistence backend. The service takes ownership and
// closes it on Stop. Without it an in-memory store is used.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCandidateSource replaces the stored-profile candidate source.
func WithCandidateSource(src matching.CandidateSource) Option {
	return func(s *Service) {
		if src != nil {
			s.remote = src
		}
	}
}

// WithCandidateLimit bounds the stored-profile candidate pool.
func WithCandidateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.candidateLimit = n
		}
	}
}

// WithFallbackPool replaces the built-in sample candidates.
func WithFallbackPool(pool []model.Profile) Option {
	return func(s *Service) {
		if len(pool) > 0 {
			s.fallbackPool = pool
		}
	}
}

// WithPageSize sets how many matches are revealed before "load more".
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMessageHistoryLimit sets the default number of messages listed.
func WithMessageHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithCalendar enables event sync through the given fetcher.
func WithCalendar(f calendar.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.calendar = f
		}
	}
}
