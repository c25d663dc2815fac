package seed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run seeds the service at cfg.BaseURL and verifies a sample of the match
// pages it returns. Failed submissions are counted, not fatal; a malformed
// page is.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	c := cfg.withDefaults()
	log := logger.Get().Named("seed")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seed run",
		logger.String("base_url", c.BaseURL),
		logger.Int("profiles", c.Profiles),
		logger.Int("workers", c.Workers),
		logger.Int("verify", c.Verify),
	)

	client := NewClient(c.BaseURL, c.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	profiles := Generate(c.Profiles, c.Seed, c.Domain)
	stats.Generated = len(profiles)

	if err := submit(ctx, client, profiles, c.Workers, stats, log); err != nil {
		return stats, err
	}
	if err := verify(ctx, client, profiles[:c.Verify], c.Workers, c.PageSize, stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "seed run completed",
		logger.Int("generated", stats.Generated),
		logger.Int("inserted", stats.Inserted),
		logger.Int("updated", stats.Updated),
		logger.Int("failed", stats.Failed),
		logger.Int("verified", stats.Verified),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}

func submit(ctx context.Context, client *Client, profiles []model.Profile, workers int, stats *Stats, log logger.Logger) error {
	var inserted, updated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range profiles {
		g.Go(func() error {
			n, err := client.SaveProfile(gctx, p)
			switch {
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				log.Warn(gctx, "profile submission failed", logger.String("email", p.Email), logger.Error(err))
			case n == 1:
				inserted.Add(1)
			default:
				updated.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Inserted = int(inserted.Load())
	stats.Updated = int(updated.Load())
	stats.Failed = int(failed.Load())
	if err != nil {
		return fmt.Errorf("profile submission cancelled: %w", err)
	}
	return nil
}

func verify(ctx context.Context, client *Client, sample []model.Profile, workers, pageSize int, stats *Stats) error {
	var verified atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range sample {
		g.Go(func() error {
			page, err := client.Matches(gctx, p.Email)
			if err != nil {
				return fmt.Errorf("fetch matches for %s: %w", p.Email, err)
			}
			if err := VerifyPage(p.Key(), page, pageSize); err != nil {
				return err
			}
			verified.Add(1)
			return nil
		})
	}
	err := g.Wait()
	stats.Verified = int(verified.Load())
	return err
}
