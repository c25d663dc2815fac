package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/crewmatch/internal/domain/model"
)

type memGroup struct {
	group    model.Group
	messages []model.Message
}

// MemoryStore keeps everything in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	opts options

	profiles     map[string]model.Profile
	profileOrder []string

	groups     map[string]*memGroup
	groupOrder []string

	connections []model.Connection

	events      map[string]map[string]model.Event
	invitations map[string]model.Invitation
	inviteOrder []string

	updater *metricsUpdater
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store and starts its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		opts:        defaultOptions(),
		profiles:    make(map[string]model.Profile),
		groups:      make(map[string]*memGroup),
		events:      make(map[string]map[string]model.Event),
		invitations: make(map[string]model.Invitation),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	s.updater = startMetricsUpdater(ctx, s.opts.metricsUpdateInterval, s.CountProfiles)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.updater.close()
	return nil
}

// GetProfile implements ProfileStore.
func (s *MemoryStore) GetProfile(_ context.Context, email string) (model.Profile, error) {
	defer track("get_profile", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[strings.ToLower(email)]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %s: %w", email, ErrNotFound)
	}
	return cloneProfile(p), nil
}

// UpsertProfile implements ProfileStore.
func (s *MemoryStore) UpsertProfile(_ context.Context, p model.Profile) (int, error) {
	defer track("upsert_profile", true)()
	key := strings.ToLower(p.Email)
	if key == "" {
		return 0, fmt.Errorf("profile without email: %w", ErrInvalidInput)
	}
	now := s.opts.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	p = cloneProfile(p)
	p.Email = key
	if old, ok := s.profiles[key]; ok {
		p.ID = old.ID
		p.CreatedAt = old.CreatedAt
		p.UpdatedAt = now
		s.profiles[key] = p
		return 2, nil
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.profiles[key] = p
	s.profileOrder = append(s.profileOrder, key)
	return 1, nil
}

// OtherProfiles implements ProfileStore.
func (s *MemoryStore) OtherProfiles(_ context.Context, email string, limit int) ([]model.Profile, error) {
	defer track("other_profiles", false)()
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	key := strings.ToLower(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, 0, min(limit, len(s.profileOrder)))
	for _, e := range s.profileOrder {
		if len(out) == limit {
			break
		}
		if e == key {
			continue
		}
		out = append(out, cloneProfile(s.profiles[e]))
	}
	return out, nil
}

// CountProfiles implements ProfileStore.
func (s *MemoryStore) CountProfiles(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// CreateGroup implements GroupStore.
func (s *MemoryStore) CreateGroup(_ context.Context, g model.Group) (model.Group, error) {
	defer track("create_group", true)()
	if g.Name == "" || g.CreatorEmail == "" {
		return model.Group{}, fmt.Errorf("group needs a name and creator: %w", ErrInvalidInput)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.opts.now()
	}
	g.Members = withCreatorFirst(g.CreatorEmail, g.Members)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; ok {
		return model.Group{}, fmt.Errorf("group %s: %w", g.ID, ErrConflict)
	}
	s.groups[g.ID] = &memGroup{group: g}
	s.groupOrder = append(s.groupOrder, g.ID)
	return cloneGroup(g), nil
}

// GetGroup implements GroupStore.
func (s *MemoryStore) GetGroup(_ context.Context, id string) (model.Group, error) {
	defer track("get_group", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[id]
	if !ok {
		return model.Group{}, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return cloneGroup(rec.group), nil
}

// ListGroups implements GroupStore.
func (s *MemoryStore) ListGroups(_ context.Context, email string) ([]model.Group, error) {
	defer track("list_groups", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Group{}
	for _, id := range s.groupOrder {
		if g := s.groups[id].group; g.HasMember(email) {
			out = append(out, cloneGroup(g))
		}
	}
	return out, nil
}

// AddMember implements GroupStore.
func (s *MemoryStore) AddMember(_ context.Context, groupID, email string) error {
	defer track("add_member", true)()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if !rec.group.HasMember(email) {
		rec.group.Members = append(rec.group.Members, email)
	}
	return nil
}

// RemoveMember implements GroupStore.
func (s *MemoryStore) RemoveMember(_ context.Context, groupID, email string) error {
	defer track("remove_member", true)()
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	for i, m := range rec.group.Members {
		if m == email {
			rec.group.Members = append(rec.group.Members[:i:i], rec.group.Members[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("member %s of group %s: %w", email, groupID, ErrNotFound)
}

// AppendMessage implements GroupStore.
func (s *MemoryStore) AppendMessage(_ context.Context, m model.Message) (model.Message, error) {
	defer track("append_message", true)()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.opts.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[m.GroupID]
	if !ok {
		return model.Message{}, fmt.Errorf("group %s: %w", m.GroupID, ErrNotFound)
	}
	rec.messages = append(rec.messages, m)
	return m, nil
}

// ListMessages implements GroupStore.
func (s *MemoryStore) ListMessages(_ context.Context, groupID string, limit int) ([]model.Message, error) {
	defer track("list_messages", false)()
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	msgs := rec.messages
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// UpsertConnection implements ConnectionStore.
func (s *MemoryStore) UpsertConnection(_ context.Context, c model.Connection) (model.Connection, error) {
	defer track("upsert_connection", true)()
	if c.User1Email == "" || c.User2Email == "" || c.User1Email == c.User2Email {
		return model.Connection{}, fmt.Errorf("connection needs two distinct users: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findConnection(c.User1Email, c.User2Email); i >= 0 {
		return s.connections[i], nil
	}
	now := s.opts.now()
	c.Status = model.StatusPending
	c.CreatedAt = now
	c.UpdatedAt = now
	s.connections = append(s.connections, c)
	return c, nil
}

// RespondConnection implements ConnectionStore.
func (s *MemoryStore) RespondConnection(_ context.Context, user1, user2 string, status model.Status) (model.Connection, error) {
	defer track("respond_connection", true)()
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findConnection(user1, user2)
	if i < 0 {
		return model.Connection{}, fmt.Errorf("connection %s/%s: %w", user1, user2, ErrNotFound)
	}
	s.connections[i].Status = status
	s.connections[i].UpdatedAt = s.opts.now()
	return s.connections[i], nil
}

// ListConnections implements ConnectionStore.
func (s *MemoryStore) ListConnections(_ context.Context, email string) ([]model.Connection, error) {
	defer track("list_connections", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Connection{}
	for _, c := range s.connections {
		if c.User1Email == email || c.User2Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) findConnection(a, b string) int {
	for i, c := range s.connections {
		if (c.User1Email == a && c.User2Email == b) || (c.User1Email == b && c.User2Email == a) {
			return i
		}
	}
	return -1
}

// UpsertEvents implements EventStore.
func (s *MemoryStore) UpsertEvents(_ context.Context, email string, events []model.Event) (int, error) {
	defer track("upsert_events", true)()
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.events[email]
	if !ok {
		byID = make(map[string]model.Event)
		s.events[email] = byID
	}
	for _, e := range events {
		if e.ID == "" {
			return 0, fmt.Errorf("event without id: %w", ErrInvalidInput)
		}
		e.Email = email
		byID[e.ID] = e
	}
	return len(events), nil
}

// ListEvents implements EventStore.
func (s *MemoryStore) ListEvents(_ context.Context, email string) ([]model.Event, error) {
	defer track("list_events", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.events[email]))
	for _, e := range s.events[email] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetEvent implements EventStore.
func (s *MemoryStore) GetEvent(_ context.Context, id, email string) (model.Event, error) {
	defer track("get_event", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[email][id]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return e, nil
}

// CreateInvitation implements EventStore.
func (s *MemoryStore) CreateInvitation(_ context.Context, inv model.Invitation) (model.Invitation, error) {
	defer track("create_invitation", true)()
	if inv.EventID == "" || inv.InviterEmail == "" || inv.InviteeEmail == "" {
		return model.Invitation{}, fmt.Errorf("invitation is incomplete: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.inviteOrder {
		old := s.invitations[id]
		if old.EventID == inv.EventID && old.InviteeEmail == inv.InviteeEmail && old.Status == model.StatusPending {
			return model.Invitation{}, fmt.Errorf("invitation for %s: %w", inv.InviteeEmail, ErrConflict)
		}
	}
	now := s.opts.now()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.Status = model.StatusPending
	inv.CreatedAt = now
	inv.UpdatedAt = now
	s.invitations[inv.ID] = inv
	s.inviteOrder = append(s.inviteOrder, inv.ID)
	return inv, nil
}

// ListInvitations implements EventStore.
func (s *MemoryStore) ListInvitations(_ context.Context, email string) ([]model.Invitation, error) {
	defer track("list_invitations", false)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Invitation{}
	for i := len(s.inviteOrder) - 1; i >= 0; i-- {
		if inv := s.invitations[s.inviteOrder[i]]; inv.InviteeEmail == email {
			out = append(out, inv)
		}
	}
	return out, nil
}

// RespondInvitation implements EventStore.
func (s *MemoryStore) RespondInvitation(_ context.Context, id string, status model.Status) (model.Invitation, error) {
	defer track("respond_invitation", true)()
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return model.Invitation{}, fmt.Errorf("invitation %s: %w", id, ErrNotFound)
	}
	inv.Status = status
	inv.UpdatedAt = s.opts.now()
	s.invitations[id] = inv
	return inv, nil
}

func cloneProfile(p model.Profile) model.Profile {
	p.Skills = append([]string{}, p.Skills...)
	return p
}

func cloneGroup(g model.Group) model.Group {
	g.Members = append([]string{}, g.Members...)
	return g
}

func withCreatorFirst(creator string, members []string) []string {
	out := []string{creator}
	for _, m := range members {
		if m != creator && !contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
