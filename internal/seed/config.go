// Package seed populates a CrewMatch deployment with generated profiles and
// checks that the ranked pages it serves back are well formed.
package seed

import (
	"time"

	"github.com/okian/crewmatch/internal/domain/matching"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Profiles int           // Number of profiles to generate
	Workers  int           // Number of concurrent submitters
	Verify   int           // Number of generated profiles whose matches are checked
	PageSize int           // First page size the service is configured with
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Generator seed; equal seeds produce equal profiles
	Domain   string        // Email domain of generated profiles
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Inserted  int
	Updated   int
	Failed    int
	Verified  int
	StartTime time.Time
	Duration  time.Duration
}

// Default run settings.
const (
	DefaultProfiles = 50
	DefaultWorkers  = 8
	DefaultVerify   = 10
	DefaultTimeout  = 10 * time.Second
	DefaultDomain   = "seed.crewmatch.dev"
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.Profiles < 1 {
		out.Profiles = DefaultProfiles
	}
	if out.Workers < 1 {
		out.Workers = DefaultWorkers
	}
	if out.Verify < 0 {
		out.Verify = 0
	}
	if out.Verify > out.Profiles {
		out.Verify = out.Profiles
	}
	if out.PageSize < 1 {
		out.PageSize = matching.DefaultPageSize
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Domain == "" {
		out.Domain = DefaultDomain
	}
	return out
}
