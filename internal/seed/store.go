package seed

import (
	"context"
	"fmt"

	"github.com/okian/crewmatch/internal/domain/model"
)

// ProfileWriter is the slice of the repository a direct seed needs.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p model.Profile) (int, error)
}

// Store writes profiles straight into a repository, bypassing the API.
// It returns the number of inserts and updates.
func Store(ctx context.Context, w ProfileWriter, profiles []model.Profile) (inserted, updated int, err error) {
	for _, p := range profiles {
		n, err := w.UpsertProfile(ctx, p.Normalize())
		if err != nil {
			return inserted, updated, fmt.Errorf("seed %s: %w", p.Email, err)
		}
		if n == 1 {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}
