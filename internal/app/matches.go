package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

// GetProfile returns the stored profile for email.
func (s *Service) GetProfile(ctx context.Context, email string) (model.Profile, error) {
	store, err := s.running()
	if err != nil {
		return model.Profile{}, err
	}
	return store.GetProfile(ctx, normalizeEmail(email))
}

// SaveProfile normalizes and upserts p by email. It returns the number of
// affected rows: 1 on insert, 2 on update.
func (s *Service) SaveProfile(ctx context.Context, p model.Profile) (int, error) {
	store, err := s.running()
	if err != nil {
		return 0, err
	}
	n, err := store.UpsertProfile(ctx, p.Normalize())
	if err != nil {
		return 0, fmt.Errorf("save profile: %w", err)
	}
	metrics.RecordProfileUpsert()
	s.logger.Debug(ctx, "profile saved",
		logger.String("email", normalizeEmail(p.Email)),
		logger.Int("affected", n),
	)
	return n, nil
}

// Matches ranks candidates for the stored profile of email.
func (s *Service) Matches(ctx context.Context, email string) (types.MatchPage, error) {
	subject, err := s.GetProfile(ctx, email)
	if err != nil {
		return types.MatchPage{}, err
	}
	return s.MatchProfile(ctx, subject)
}

// MatchProfile ranks candidates for subject, which need not be stored. The
// remote source is tried once; any failure falls back to the local pool.
func (s *Service) MatchProfile(ctx context.Context, subject model.Profile) (types.MatchPage, error) {
	if _, err := s.running(); err != nil {
		return types.MatchPage{}, err
	}
	start := time.Now()
	subject = subject.Normalize()

	s.mu.RLock()
	selector, pageSize := s.selector, s.pageSize
	s.mu.RUnlock()

	pool, source := selector.Select(ctx, subject)
	page := s.rank(subject, pool, pageSize)
	page.Source = source

	metrics.RecordMatchRequest(string(source))
	metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "matches computed",
		logger.String("email", subject.Email),
		logger.String("source", string(source)),
		logger.Int("candidates", page.Total()),
	)
	return page, nil
}

func (s *Service) rank(subject model.Profile, pool []model.Profile, pageSize int) types.MatchPage {
	normalized := make([]model.Profile, len(pool))
	for i, c := range pool {
		normalized[i] = c.Normalize()
	}
	results := matching.Rank(subject, normalized)
	for _, r := range results {
		metrics.RecordMatchScore(r.Score)
	}
	return matching.Paginate(results, pageSize)
}
