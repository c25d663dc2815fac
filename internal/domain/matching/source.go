package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

// Default remote pool size, matching the stored-profile query limit.
const DefaultCandidateLimit = 10

// Fallback reasons recorded when the remote pool is not used.
const (
	fallbackNoRemote = "no_remote"
	fallbackNoEmail  = "no_email"
	fallbackError    = "error"
	fallbackEmpty    = "empty"
)

// CandidateSource supplies a remote candidate pool keyed by the subject's email.
type CandidateSource interface {
	Candidates(ctx context.Context, email string) ([]model.Profile, error)
}

// ProfileLister lists stored profiles other than the given email.
type ProfileLister interface {
	OtherProfiles(ctx context.Context, email string, limit int) ([]model.Profile, error)
}

// StoreSource reads candidates from the profile store.
type StoreSource struct {
	store ProfileLister
	limit int
}

// NewStoreSource creates a CandidateSource over store returning at most limit profiles.
func NewStoreSource(store ProfileLister, limit int) *StoreSource {
	if limit < 1 {
		limit = DefaultCandidateLimit
	}
	return &StoreSource{store: store, limit: limit}
}

// Candidates implements CandidateSource.
func (s *StoreSource) Candidates(ctx context.Context, email string) ([]model.Profile, error) {
	out, err := s.store.OtherProfiles(ctx, email, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list other profiles: %w", err)
	}
	return out, nil
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithRemote sets the remote candidate source.
func WithRemote(src CandidateSource) Option {
	return func(s *Selector) {
		s.remote = src
	}
}

// WithFallbackPool replaces the built-in sample pool.
func WithFallbackPool(pool []model.Profile) Option {
	return func(s *Selector) {
		if len(pool) > 0 {
			s.fallback = pool
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// Selector decides which candidate pool feeds the ranker: one attempt at
// the remote source, then the local fallback pool. Failures are absorbed.
type Selector struct {
	remote   CandidateSource
	fallback []model.Profile
	logger   logger.Logger
}

// NewSelector creates a Selector. Without WithRemote every selection uses
// the fallback pool.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{fallback: SamplePool()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the candidate pool for subject and where it came from.
// It never fails: an unreachable, failing or empty remote source yields the
// fallback pool.
func (s *Selector) Select(ctx context.Context, subject model.Profile) ([]model.Profile, types.Source) {
	if s.remote == nil {
		return s.useFallback(ctx, fallbackNoRemote, nil)
	}
	if subject.Email == "" {
		return s.useFallback(ctx, fallbackNoEmail, nil)
	}

	start := time.Now()
	pool, err := s.remote.Candidates(ctx, subject.Email)
	metrics.RecordRemoteFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return s.useFallback(ctx, fallbackError, err)
	}
	if len(pool) == 0 {
		return s.useFallback(ctx, fallbackEmpty, nil)
	}
	return pool, types.SourceRemote
}

// Fallback returns a copy of the local pool.
func (s *Selector) Fallback() []model.Profile {
	out := make([]model.Profile, len(s.fallback))
	copy(out, s.fallback)
	return out
}

func (s *Selector) useFallback(ctx context.Context, reason string, err error) ([]model.Profile, types.Source) {
	metrics.RecordFallbackSelected(reason)
	if s.logger != nil {
		fields := []logger.Field{logger.String("reason", reason)}
		if err != nil {
			fields = append(fields, logger.Error(err))
		}
		s.logger.Debug(ctx, "using fallback candidate pool", fields...)
	}
	return s.Fallback(), types.SourceFallback
}
