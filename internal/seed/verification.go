package seed

import (
	"errors"
	"fmt"

	"github.com/okian/crewmatch/internal/domain/types"
)

// ErrInvalidPage reports a ranked page that breaks an ordering or bound rule.
var ErrInvalidPage = errors.New("invalid match page")

// VerifyPage checks that page is ranked by non-increasing score, keeps its
// scores within 0..100, fits pageSize on the first page and never offers
// the subject as their own match.
func VerifyPage(subject string, page types.MatchPage, pageSize int) error {
	if len(page.Top) > pageSize {
		return fmt.Errorf("%w: %d results on first page, want at most %d", ErrInvalidPage, len(page.Top), pageSize)
	}
	if len(page.Remainder) > 0 && len(page.Top) < pageSize {
		return fmt.Errorf("%w: remainder present behind a short first page", ErrInvalidPage)
	}
	switch page.Source {
	case types.SourceRemote, types.SourceFallback, types.SourceStore:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidPage, page.Source)
	}

	all := append(append([]types.MatchResult{}, page.Top...), page.Remainder...)
	for i, m := range all {
		if m.Score < 0 || m.Score > 100 {
			return fmt.Errorf("%w: score %d out of range at %d", ErrInvalidPage, m.Score, i)
		}
		if i > 0 && m.Score > all[i-1].Score {
			return fmt.Errorf("%w: score %d after %d at %d", ErrInvalidPage, m.Score, all[i-1].Score, i)
		}
		if m.Candidate.Key() == subject {
			return fmt.Errorf("%w: subject %s matched with itself", ErrInvalidPage, subject)
		}
	}
	return nil
}
