package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/crewmatch/internal/adapters/calendar"
	"github.com/okian/crewmatch/internal/adapters/http/api"
	"github.com/okian/crewmatch/internal/adapters/http/site"
	"github.com/okian/crewmatch/internal/adapters/http/swagger"
	"github.com/okian/crewmatch/internal/adapters/remote"
	"github.com/okian/crewmatch/internal/adapters/repository"
	service "github.com/okian/crewmatch/internal/app"
	"github.com/okian/crewmatch/internal/config"
	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 15 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Runs the CrewMatch HTTP API, websocket chat and API docs until SIGINT or SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.Get()

	svc, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("db_driver", cfg.DBDriver),
			logger.Bool("remote_matches", cfg.RemoteMatchesURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// buildService wires the store, candidate sources and calendar client
// selected by c into a service ready to Start.
func buildService(ctx context.Context, c *config.Config, log logger.Logger) (*service.Service, error) {
	store, err := repository.New(ctx, c.DBDriver, c.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", c.DBDriver, err)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithStore(store),
		service.WithWorkerCount(c.WorkerCount),
		service.WithQueueSize(c.EventQueueSize),
		service.WithDedupeSize(c.DedupeSize),
		service.WithCandidateLimit(c.CandidateLimit),
		service.WithPageSize(c.PageSize),
		service.WithMessageHistoryLimit(c.MessageHistoryLimit),
		service.WithCalendar(calendar.NewClient(
			calendar.WithMaxResults(c.CalendarMaxResults),
			calendar.WithLookahead(time.Duration(c.CalendarLookaheadDays)*24*time.Hour),
		)),
	}

	if c.FallbackPoolFile != "" {
		pool, err := matching.LoadPool(c.FallbackPoolFile)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, service.WithFallbackPool(pool))
	}

	if c.RemoteMatchesURL != "" {
		src, err := remote.NewHTTPSource(c.RemoteMatchesURL,
			remote.WithTimeout(time.Duration(c.RemoteTimeoutMS)*time.Millisecond))
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, service.WithCandidateSource(src))
	}

	return service.New(opts...), nil
}

// newHandler builds the routed, middleware-wrapped HTTP handler.
func newHandler(ctx context.Context, c *config.Config, svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithCORSOrigins(c.CORSOrigins),
		api.WithRateLimit(c.RateLimitRPS, c.RateLimitBurst),
	)
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux)
}

// startSystemMetricsUpdater refreshes process gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
