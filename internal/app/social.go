package service

import (
	"context"
	"fmt"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

// SendConnection requests a link between two users. An existing link in
// either direction is returned unchanged.
func (s *Service) SendConnection(ctx context.Context, from, to string) (model.Connection, error) {
	store, err := s.running()
	if err != nil {
		return model.Connection{}, err
	}
	return store.UpsertConnection(ctx, model.Connection{
		User1Email: normalizeEmail(from),
		User2Email: normalizeEmail(to),
	})
}

// RespondConnection accepts or declines a pending connection.
func (s *Service) RespondConnection(ctx context.Context, user1, user2 string, status model.Status) (model.Connection, error) {
	store, err := s.running()
	if err != nil {
		return model.Connection{}, err
	}
	if err := checkResponse(status); err != nil {
		return model.Connection{}, err
	}
	return store.RespondConnection(ctx, normalizeEmail(user1), normalizeEmail(user2), status)
}

// Connections lists the links where email is either side.
func (s *Service) Connections(ctx context.Context, email string) ([]model.Connection, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.ListConnections(ctx, normalizeEmail(email))
}

// SyncEvents pulls upcoming calendar events with accessToken and stores
// them for email.
func (s *Service) SyncEvents(ctx context.Context, email, accessToken string) ([]model.Event, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	if s.calendar == nil {
		return nil, ErrCalendarUnavailable
	}
	email = normalizeEmail(email)

	events, err := s.calendar.Upcoming(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("sync events: %w", err)
	}
	n, err := store.UpsertEvents(ctx, email, events)
	if err != nil {
		return nil, fmt.Errorf("store events: %w", err)
	}
	s.logger.Info(ctx, "calendar synced",
		logger.String("email", email),
		logger.Int("events", n),
	)
	return store.ListEvents(ctx, email)
}

// Events lists the stored events of email ordered by start.
func (s *Service) Events(ctx context.Context, email string) ([]model.Event, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.ListEvents(ctx, normalizeEmail(email))
}

// Event returns one stored event of email.
func (s *Service) Event(ctx context.Context, id, email string) (model.Event, error) {
	store, err := s.running()
	if err != nil {
		return model.Event{}, err
	}
	return store.GetEvent(ctx, id, normalizeEmail(email))
}

// Teammates ranks stored profiles other than email's as teammates for an
// event email has synced. Unlike Matches it never uses the fallback pool.
func (s *Service) Teammates(ctx context.Context, eventID, email string) (types.MatchPage, error) {
	store, err := s.running()
	if err != nil {
		return types.MatchPage{}, err
	}
	email = normalizeEmail(email)
	if _, err := store.GetEvent(ctx, eventID, email); err != nil {
		return types.MatchPage{}, err
	}
	subject, err := store.GetProfile(ctx, email)
	if err != nil {
		return types.MatchPage{}, err
	}
	pool, err := store.OtherProfiles(ctx, email, s.candidateLimit)
	if err != nil {
		return types.MatchPage{}, fmt.Errorf("list teammates: %w", err)
	}

	page := s.rank(subject.Normalize(), pool, s.pageSize)
	page.Source = types.SourceStore
	metrics.RecordMatchRequest(string(types.SourceStore))
	return page, nil
}

// Invite asks another user to join an event.
func (s *Service) Invite(ctx context.Context, inv model.Invitation) (model.Invitation, error) {
	store, err := s.running()
	if err != nil {
		return model.Invitation{}, err
	}
	inv.InviterEmail = normalizeEmail(inv.InviterEmail)
	inv.InviteeEmail = normalizeEmail(inv.InviteeEmail)
	if _, err := store.GetEvent(ctx, inv.EventID, inv.InviterEmail); err != nil {
		return model.Invitation{}, err
	}
	out, err := store.CreateInvitation(ctx, inv)
	if err != nil {
		return model.Invitation{}, err
	}
	metrics.RecordInvitationIssued()
	return out, nil
}

// Invitations lists invitations addressed to email, newest first.
func (s *Service) Invitations(ctx context.Context, email string) ([]model.Invitation, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.ListInvitations(ctx, normalizeEmail(email))
}

// RespondInvitation accepts or declines an invitation.
func (s *Service) RespondInvitation(ctx context.Context, id string, status model.Status) (model.Invitation, error) {
	store, err := s.running()
	if err != nil {
		return model.Invitation{}, err
	}
	if err := checkResponse(status); err != nil {
		return model.Invitation{}, err
	}
	return store.RespondInvitation(ctx, id, status)
}

func checkResponse(status model.Status) error {
	if status != model.StatusAccepted && status != model.StatusDeclined {
		return ErrInvalidStatus
	}
	return nil
}
