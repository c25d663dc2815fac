package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	eventqueue "github.com/okian/crewmatch/internal/adapters/mq/queue"
	"github.com/okian/crewmatch/internal/adapters/repository"
	"github.com/okian/crewmatch/internal/domain/dedupe"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/okian/crewmatch/pkg/metrics"
)

// CreateGroup stores a new group with its creator as first member.
func (s *Service) CreateGroup(ctx context.Context, g model.Group) (model.Group, error) {
	store, err := s.running()
	if err != nil {
		return model.Group{}, err
	}
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	g.CreatorEmail = normalizeEmail(g.CreatorEmail)
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m = normalizeEmail(m); m != "" {
			members = append(members, m)
		}
	}
	g.Members = members
	return store.CreateGroup(ctx, g)
}

// GetGroup returns a group by id.
func (s *Service) GetGroup(ctx context.Context, id string) (model.Group, error) {
	store, err := s.running()
	if err != nil {
		return model.Group{}, err
	}
	return store.GetGroup(ctx, id)
}

// ListGroups returns the groups email belongs to.
func (s *Service) ListGroups(ctx context.Context, email string) ([]model.Group, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.ListGroups(ctx, normalizeEmail(email))
}

// AddMember adds email to the group. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, groupID, email string) (model.Group, error) {
	store, err := s.running()
	if err != nil {
		return model.Group{}, err
	}
	if err := store.AddMember(ctx, groupID, normalizeEmail(email)); err != nil {
		return model.Group{}, err
	}
	return store.GetGroup(ctx, groupID)
}

// RemoveMember removes email from the group.
func (s *Service) RemoveMember(ctx context.Context, groupID, email string) error {
	store, err := s.running()
	if err != nil {
		return err
	}
	return store.RemoveMember(ctx, groupID, normalizeEmail(email))
}

// PostMessage persists m and schedules it for realtime delivery. A message
// whose client id was already posted to the group is reported as a
// duplicate and not stored again.
func (s *Service) PostMessage(ctx context.Context, m model.Message) (model.Message, bool, error) {
	store, err := s.running()
	if err != nil {
		return model.Message{}, false, err
	}
	m.Email = normalizeEmail(m.Email)
	m.Content = strings.TrimSpace(m.Content)
	m.ClientID = strings.TrimSpace(m.ClientID)

	if err := authorize(ctx, store, m.GroupID, m.Email); err != nil {
		return model.Message{}, false, err
	}

	var key string
	if m.ClientID != "" {
		key = dedupe.Key(m.GroupID, m.ClientID)
		if s.deduper.SeenAndRecord(ctx, key) {
			metrics.RecordMessageDuplicate()
			s.logger.Debug(ctx, "duplicate message skipped",
				logger.String("group_id", m.GroupID),
				logger.String("client_id", m.ClientID),
			)
			return model.Message{}, true, nil
		}
	}

	stored, err := store.AppendMessage(ctx, m)
	if err != nil {
		if key != "" {
			// Let the client retry with the same id.
			s.deduper.Unrecord(ctx, key)
		}
		return model.Message{}, false, fmt.Errorf("append message: %w", err)
	}

	if err := s.queue.Enqueue(ctx, stored); err != nil {
		metrics.RecordErrorByComponent("service", "fanout_skipped")
		s.logger.Warn(ctx, "realtime fan-out skipped",
			logger.String("group_id", stored.GroupID),
			logger.String("message_id", stored.ID),
			logger.Bool("queue_full", errors.Is(err, eventqueue.ErrFull)),
			logger.Error(err),
		)
	}
	return stored, false, nil
}

// Messages returns the latest limit messages of a group in posting order.
// A limit below one uses the configured history limit.
func (s *Service) Messages(ctx context.Context, groupID string, limit int) ([]model.Message, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = s.historyLimit
	}
	return store.ListMessages(ctx, groupID, limit)
}

// Authorize checks that email may read and post in the group.
func (s *Service) Authorize(ctx context.Context, groupID, email string) error {
	store, err := s.running()
	if err != nil {
		return err
	}
	return authorize(ctx, store, groupID, normalizeEmail(email))
}

func authorize(ctx context.Context, store repository.GroupStore, groupID, email string) error {
	g, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.HasMember(email) {
		return ErrForbidden
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
