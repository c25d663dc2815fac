// Package repository persists profiles, groups, connections and calendar
// events behind a single Store interface with memory and SQL backends.
package repository

import (
	"context"

	"github.com/okian/crewmatch/internal/domain/model"
)

// ProfileStore provides read/write access to user profiles keyed by email.
type ProfileStore interface {
	// GetProfile returns ErrNotFound if email is unknown.
	GetProfile(ctx context.Context, email string) (model.Profile, error)
	// UpsertProfile inserts or replaces the profile for p.Email. It returns
	// 1 for an insert and 2 for an update.
	UpsertProfile(ctx context.Context, p model.Profile) (int, error)
	// OtherProfiles returns up to limit profiles whose email differs from email,
	// oldest first.
	OtherProfiles(ctx context.Context, email string, limit int) ([]model.Profile, error)
	// CountProfiles returns the number of stored profiles.
	CountProfiles(ctx context.Context) (int, error)
}

// GroupStore manages chat groups, membership and message history.
type GroupStore interface {
	CreateGroup(ctx context.Context, g model.Group) (model.Group, error)
	GetGroup(ctx context.Context, id string) (model.Group, error)
	// ListGroups returns the groups email belongs to, oldest first.
	ListGroups(ctx context.Context, email string) ([]model.Group, error)
	// AddMember is a no-op when email is already a member.
	AddMember(ctx context.Context, groupID, email string) error
	// RemoveMember returns ErrNotFound when email is not a member.
	RemoveMember(ctx context.Context, groupID, email string) error
	AppendMessage(ctx context.Context, m model.Message) (model.Message, error)
	// ListMessages returns the latest limit messages in posting order.
	ListMessages(ctx context.Context, groupID string, limit int) ([]model.Message, error)
}

// ConnectionStore manages pairwise connection requests.
type ConnectionStore interface {
	// UpsertConnection creates a pending connection, or returns the existing
	// one for the pair in either direction.
	UpsertConnection(ctx context.Context, c model.Connection) (model.Connection, error)
	// RespondConnection sets the status of the pair in either direction.
	RespondConnection(ctx context.Context, user1, user2 string, status model.Status) (model.Connection, error)
	// ListConnections returns connections where email is on either side.
	ListConnections(ctx context.Context, email string) ([]model.Connection, error)
}

// EventStore manages synced calendar events and teammate invitations.
type EventStore interface {
	// UpsertEvents stores events for email, replacing rows with the same id.
	UpsertEvents(ctx context.Context, email string, events []model.Event) (int, error)
	// ListEvents returns the events of email ordered by start time.
	ListEvents(ctx context.Context, email string) ([]model.Event, error)
	GetEvent(ctx context.Context, id, email string) (model.Event, error)
	// CreateInvitation returns ErrConflict when the invitee already has a
	// pending invitation for the event.
	CreateInvitation(ctx context.Context, inv model.Invitation) (model.Invitation, error)
	// ListInvitations returns invitations addressed to email, newest first.
	ListInvitations(ctx context.Context, email string) ([]model.Invitation, error)
	RespondInvitation(ctx context.Context, id string, status model.Status) (model.Invitation, error)
}

// Store is the full persistence surface used by the service.
type Store interface {
	ProfileStore
	GroupStore
	ConnectionStore
	EventStore

	Close() error
}
