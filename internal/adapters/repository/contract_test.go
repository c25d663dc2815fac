package repository

import (
	"context"
	"testing"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("profiles", func(t *testing.T) {
		s := open(t)

		_, err := s.GetProfile(ctx, "nobody@x.io")
		require.ErrorIs(t, err, ErrNotFound)

		n, err := s.UpsertProfile(ctx, model.Profile{
			Email:    "Aarav@X.io",
			FullName: "Aarav",
			Skills:   []string{"coding", "design"},
			Traits:   model.Traits{Trait1: "extrovert"},
			Goal:     "hackathon",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		p, err := s.GetProfile(ctx, "aarav@x.io")
		require.NoError(t, err)
		assert.Equal(t, "aarav@x.io", p.Email)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, []string{"coding", "design"}, p.Skills)
		assert.Equal(t, "extrovert", p.Traits.Trait1)
		assert.True(t, p.CreatedAt.Equal(fixedNow))
		firstID := p.ID

		n, err = s.UpsertProfile(ctx, model.Profile{Email: "aarav@x.io", FullName: "Aarav S", Goal: "startup"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		p, err = s.GetProfile(ctx, "aarav@x.io")
		require.NoError(t, err)
		assert.Equal(t, "Aarav S", p.FullName)
		assert.Equal(t, "startup", p.Goal)
		assert.Equal(t, firstID, p.ID)
		assert.NotNil(t, p.Skills)
		assert.Empty(t, p.Skills)

		_, err = s.UpsertProfile(ctx, model.Profile{FullName: "anon"})
		require.ErrorIs(t, err, ErrInvalidInput)

		for _, e := range []string{"b@x.io", "c@x.io", "d@x.io"} {
			_, err := s.UpsertProfile(ctx, model.Profile{Email: e})
			require.NoError(t, err)
		}
		count, err := s.CountProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		others, err := s.OtherProfiles(ctx, "aarav@x.io", 2)
		require.NoError(t, err)
		require.Len(t, others, 2)
		assert.Equal(t, "b@x.io", others[0].Email)
		assert.Equal(t, "c@x.io", others[1].Email)

		others, err = s.OtherProfiles(ctx, "c@x.io", 10)
		require.NoError(t, err)
		assert.Len(t, others, 3)
		for _, o := range others {
			assert.NotEqual(t, "c@x.io", o.Email)
		}

		_, err = s.OtherProfiles(ctx, "c@x.io", 0)
		require.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("groups and messages", func(t *testing.T) {
		s := open(t)

		_, err := s.CreateGroup(ctx, model.Group{CreatorEmail: "a@x.io"})
		require.ErrorIs(t, err, ErrInvalidInput)

		g, err := s.CreateGroup(ctx, model.Group{Name: "Hackers", CreatorEmail: "a@x.io", Members: []string{"b@x.io", "a@x.io"}})
		require.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, []string{"a@x.io", "b@x.io"}, g.Members)

		_, err = s.CreateGroup(ctx, model.Group{ID: g.ID, Name: "Again", CreatorEmail: "a@x.io"})
		require.ErrorIs(t, err, ErrConflict)

		require.NoError(t, s.AddMember(ctx, g.ID, "c@x.io"))
		require.NoError(t, s.AddMember(ctx, g.ID, "c@x.io"))
		require.ErrorIs(t, s.AddMember(ctx, "missing", "c@x.io"), ErrNotFound)

		got, err := s.GetGroup(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, got.Members)
		assert.Equal(t, "Hackers", got.Name)

		require.NoError(t, s.RemoveMember(ctx, g.ID, "b@x.io"))
		require.ErrorIs(t, s.RemoveMember(ctx, g.ID, "b@x.io"), ErrNotFound)

		other, err := s.CreateGroup(ctx, model.Group{Name: "Other", CreatorEmail: "c@x.io"})
		require.NoError(t, err)

		groups, err := s.ListGroups(ctx, "c@x.io")
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, g.ID, groups[0].ID)
		assert.Equal(t, other.ID, groups[1].ID)

		groups, err = s.ListGroups(ctx, "b@x.io")
		require.NoError(t, err)
		assert.Empty(t, groups)

		_, err = s.GetGroup(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)

		for _, content := range []string{"one", "two", "three"} {
			_, err := s.AppendMessage(ctx, model.Message{GroupID: g.ID, Email: "a@x.io", Content: content})
			require.NoError(t, err)
		}
		_, err = s.AppendMessage(ctx, model.Message{GroupID: "missing", Email: "a@x.io", Content: "x"})
		require.ErrorIs(t, err, ErrNotFound)

		msgs, err := s.ListMessages(ctx, g.ID, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "two", msgs[0].Content)
		assert.Equal(t, "three", msgs[1].Content)
		assert.NotEmpty(t, msgs[0].ID)

		msgs, err = s.ListMessages(ctx, other.ID, 50)
		require.NoError(t, err)
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)

		_, err = s.ListMessages(ctx, "missing", 50)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("connections", func(t *testing.T) {
		s := open(t)

		c, err := s.UpsertConnection(ctx, model.Connection{User1Email: "a@x.io", User2Email: "b@x.io"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, c.Status)

		again, err := s.UpsertConnection(ctx, model.Connection{User1Email: "b@x.io", User2Email: "a@x.io"})
		require.NoError(t, err)
		assert.Equal(t, "a@x.io", again.User1Email)

		_, err = s.UpsertConnection(ctx, model.Connection{User1Email: "a@x.io", User2Email: "a@x.io"})
		require.ErrorIs(t, err, ErrInvalidInput)

		c, err = s.RespondConnection(ctx, "b@x.io", "a@x.io", model.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, model.StatusAccepted, c.Status)

		_, err = s.RespondConnection(ctx, "a@x.io", "z@x.io", model.StatusAccepted)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.UpsertConnection(ctx, model.Connection{User1Email: "c@x.io", User2Email: "b@x.io"})
		require.NoError(t, err)

		list, err := s.ListConnections(ctx, "b@x.io")
		require.NoError(t, err)
		assert.Len(t, list, 2)
		list, err = s.ListConnections(ctx, "a@x.io")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, model.StatusAccepted, list[0].Status)
	})

	t.Run("events and invitations", func(t *testing.T) {
		s := open(t)

		start := fixedNow.Add(48 * time.Hour)
		n, err := s.UpsertEvents(ctx, "a@x.io", []model.Event{
			{ID: "e2", Title: "Demo day", Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)},
			{ID: "e1", Title: "Hackathon", Start: start, End: start.Add(24 * time.Hour), AllDay: true},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = s.UpsertEvents(ctx, "a@x.io", []model.Event{{ID: "e2", Title: "Demo day (moved)", Start: start.Add(3 * time.Hour), End: start.Add(4 * time.Hour)}})
		require.NoError(t, err)

		events, err := s.ListEvents(ctx, "a@x.io")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "e1", events[0].ID)
		assert.True(t, events[0].AllDay)
		assert.Equal(t, "Demo day (moved)", events[1].Title)
		assert.True(t, events[1].Start.Equal(start.Add(3*time.Hour)))

		e, err := s.GetEvent(ctx, "e1", "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, "a@x.io", e.Email)

		_, err = s.GetEvent(ctx, "e1", "b@x.io")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.UpsertEvents(ctx, "a@x.io", []model.Event{{Title: "no id"}})
		require.ErrorIs(t, err, ErrInvalidInput)

		inv, err := s.CreateInvitation(ctx, model.Invitation{EventID: "e1", InviterEmail: "a@x.io", InviteeEmail: "b@x.io"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, inv.Status)
		assert.NotEmpty(t, inv.ID)

		_, err = s.CreateInvitation(ctx, model.Invitation{EventID: "e1", InviterEmail: "a@x.io", InviteeEmail: "b@x.io"})
		require.ErrorIs(t, err, ErrConflict)

		second, err := s.CreateInvitation(ctx, model.Invitation{EventID: "e2", InviterEmail: "a@x.io", InviteeEmail: "b@x.io"})
		require.NoError(t, err)

		list, err := s.ListInvitations(ctx, "b@x.io")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)

		resp, err := s.RespondInvitation(ctx, inv.ID, model.StatusDeclined)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDeclined, resp.Status)

		_, err = s.CreateInvitation(ctx, model.Invitation{EventID: "e1", InviterEmail: "a@x.io", InviteeEmail: "b@x.io"})
		require.NoError(t, err)

		_, err = s.RespondInvitation(ctx, "missing", model.StatusAccepted)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
