// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults come from New; Load layers a YAML file and CREWMATCH_* env vars on top.
//   - Keys are flat and match the koanf tags below.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogBackend selects slog (text) or zap (JSON).
	LogBackend string `koanf:"log_backend"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// DBDriver is one of memory, sqlite, postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the data source name for the sql drivers.
	DBDSN string `koanf:"db_dsn"`

	// CandidateLimit bounds the remote candidate pool.
	CandidateLimit int `koanf:"candidate_limit"`

	// PageSize is the number of matches revealed before "show more".
	PageSize int `koanf:"page_size"`

	// FallbackPoolFile optionally replaces the built-in sample candidates.
	FallbackPoolFile string `koanf:"fallback_pool_file"`

	// RemoteMatchesURL points at another CrewMatch instance to pull candidates from.
	RemoteMatchesURL string `koanf:"remote_matches_url"`

	// RemoteTimeoutMS caps a single remote candidate fetch.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// EventQueueSize bounds the in-memory chat fan-out queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of fan-out workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the message idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MessageHistoryLimit is the default page of chat history.
	MessageHistoryLimit int `koanf:"message_history_limit"`

	// RateLimitRPS and RateLimitBurst configure the per-client API limiter.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// CalendarMaxResults and CalendarLookaheadDays bound a calendar sync.
	CalendarMaxResults    int `koanf:"calendar_max_results"`
	CalendarLookaheadDays int `koanf:"calendar_lookahead_days"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogBackend:            "slog",
		Addr:                  ":3000",
		DBDriver:              DriverMemory,
		CandidateLimit:        10,
		PageSize:              4,
		RemoteTimeoutMS:       5000,
		EventQueueSize:        10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            50_000,
		MessageHistoryLimit:   50,
		RateLimitRPS:          20,
		RateLimitBurst:        40,
		CORSOrigins:           []string{"*"},
		CalendarMaxResults:    25,
		CalendarLookaheadDays: 60,
	}
}
