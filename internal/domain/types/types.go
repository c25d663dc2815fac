// Package types contains common types used across the application
package types

import "github.com/okian/crewmatch/internal/domain/model"

// Source names the candidate pool a ranking was computed from.
type Source string

// Candidate pool origins.
const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceStore    Source = "store"
)

// MatchResult is one scored candidate. It is recomputed on every request
// and never persisted.
type MatchResult struct {
	Candidate model.Profile `json:"candidate"`
	Score     int           `json:"score"`
	Reasons   []string      `json:"reasons"`
}

// MatchPage is a ranked list split for two-stage reveal: the first page
// is shown immediately, the remainder on "load more".
type MatchPage struct {
	Source    Source        `json:"source"`
	Top       []MatchResult `json:"matches"`
	Remainder []MatchResult `json:"more"`
}

// Total returns the number of ranked candidates across both slices.
func (p MatchPage) Total() int {
	return len(p.Top) + len(p.Remainder)
}
