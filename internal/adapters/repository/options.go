package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/crewmatch/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

type options struct {
	now                   func() time.Time
	metricsUpdateInterval time.Duration
}

func defaultOptions() options {
	return options{
		now:                   time.Now,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// metricsUpdater periodically publishes the profile count.
type metricsUpdater struct {
	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

func startMetricsUpdater(ctx context.Context, interval time.Duration, count func(context.Context) (int, error)) *metricsUpdater {
	u := &metricsUpdater{stop: make(chan struct{})}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-u.stop:
				return
			case <-ticker.C:
				if n, err := count(ctx); err == nil {
					metrics.UpdateProfilesTotal(n)
				}
			}
		}
	}()
	return u
}

func (u *metricsUpdater) close() {
	u.once.Do(func() { close(u.stop) })
	u.wg.Wait()
}

// track records the latency of one repository operation.
func track(op string, write bool) func() {
	start := time.Now()
	return func() {
		ms := float64(time.Since(start).Microseconds()) / 1000
		if write {
			metrics.RecordRepositoryUpdateLatency(op, ms)
			return
		}
		metrics.RecordRepositoryQueryLatency(op, ms)
	}
}
