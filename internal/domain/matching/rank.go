package matching

import (
	"sort"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
)

// DefaultPageSize is the number of matches revealed before "load more".
const DefaultPageSize = 4

// Rank scores every candidate in pool against subject and orders them by
// score descending. Ties keep their pool order.
//
// The pool is de-duplicated by identity first (first occurrence wins) and
// the subject's own profile is skipped. Candidates without any identity
// are kept as-is.
func Rank(subject model.Profile, pool []model.Profile) []types.MatchResult {
	self := subject.Key()
	seen := make(map[string]struct{}, len(pool))
	results := make([]types.MatchResult, 0, len(pool))

	for _, c := range pool {
		key := c.Key()
		if key != "" {
			if key == self && subject.Email != "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		r := Score(subject, c)
		results = append(results, types.MatchResult{
			Candidate: c,
			Score:     r.Score,
			Reasons:   r.Reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Paginate splits ranked results into the first size entries and the rest.
// Both slices are non-nil so they encode as empty JSON arrays.
func Paginate(results []types.MatchResult, size int) types.MatchPage {
	if size < 1 {
		size = DefaultPageSize
	}
	n := min(size, len(results))
	top := make([]types.MatchResult, n)
	copy(top, results[:n])
	rest := make([]types.MatchResult, len(results)-n)
	copy(rest, results[n:])
	return types.MatchPage{Top: top, Remainder: rest}
}
