package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/crewmatch/internal/adapters/realtime"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
)

// GroupDependencies defines the interface for group and chat operations.
type GroupDependencies interface {
	CreateGroup(ctx context.Context, g model.Group) (model.Group, error)
	GetGroup(ctx context.Context, id string) (model.Group, error)
	ListGroups(ctx context.Context, email string) ([]model.Group, error)
	AddMember(ctx context.Context, groupID, email string) (model.Group, error)
	RemoveMember(ctx context.Context, groupID, email string) error
	PostMessage(ctx context.Context, m model.Message) (model.Message, bool, error)
	Messages(ctx context.Context, groupID string, limit int) ([]model.Message, error)
	Authorize(ctx context.Context, groupID, email string) error
	Hub() *realtime.Hub
}

// GroupHandler handles group, membership and chat requests.
type GroupHandler struct {
	deps   GroupDependencies
	logger logger.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(deps GroupDependencies, log logger.Logger) *GroupHandler {
	return &GroupHandler{deps: deps, logger: log}
}

type groupsResponse struct {
	Groups []model.Group `json:"groups"`
}

type messagesResponse struct {
	Messages []model.Message `json:"messages"`
}

type duplicateResponse struct {
	Duplicate bool `json:"duplicate"`
}

// HandleCreateGroup handles POST /api/groups.
func (h *GroupHandler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_group"
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.Name, &req.Description, &req.CreatorEmail)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	g, err := h.deps.CreateGroup(r.Context(), model.Group{
		Name:         req.Name,
		Description:  req.Description,
		CreatorEmail: req.CreatorEmail,
		Members:      req.Members,
	})
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// HandleListGroups handles GET /api/groups?email=.
func (h *GroupHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_groups"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	groups, err := h.deps.ListGroups(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groupsResponse{Groups: groups})
}

// HandleGetGroup handles GET /api/groups/{id}.
func (h *GroupHandler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.deps.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("api.get_group", err))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleAddMember handles POST /api/groups/{id}/members.
func (h *GroupHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_member"
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.Email)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	g, err := h.deps.AddMember(r.Context(), r.PathValue("id"), req.Email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleRemoveMember handles DELETE /api/groups/{id}/members/{email}.
func (h *GroupHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("email")); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("api.remove_member", err))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// HandlePostMessage handles POST /api/groups/{id}/messages.
func (h *GroupHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_message"
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.Email, &req.Content, &req.ClientID)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	m, dup, err := h.deps.PostMessage(r.Context(), model.Message{
		GroupID:  r.PathValue("id"),
		Email:    req.Email,
		Content:  req.Content,
		ClientID: req.ClientID,
	})
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, duplicateResponse{Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleListMessages handles GET /api/groups/{id}/messages?email=&limit=.
func (h *GroupHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_messages"
	ctx := r.Context()
	groupID := r.PathValue("id")
	email, err := emailParam(r)
	if err != nil {
		writeFailure(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeFailure(ctx, w, h.logger, NewKind(op, ErrBadRequest))
			return
		}
	}
	if err := h.deps.Authorize(ctx, groupID, email); err != nil {
		writeFailure(ctx, w, h.logger, Wrap(op, err))
		return
	}
	msgs, err := h.deps.Messages(ctx, groupID, limit)
	if err != nil {
		writeFailure(ctx, w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: msgs})
}

// HandleStream upgrades GET /api/groups/{id}/ws?email= to a websocket that
// receives the group's new messages.
func (h *GroupHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	ctx := r.Context()
	groupID := r.PathValue("id")
	email, err := emailParam(r)
	if err != nil {
		writeFailure(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.Authorize(ctx, groupID, email); err != nil {
		writeFailure(ctx, w, h.logger, Wrap(op, err))
		return
	}
	// The upgrader has already answered the client when Serve fails.
	if err := h.deps.Hub().Serve(w, r, groupID, email); err != nil {
		h.logger.Debug(ctx, "websocket session ended",
			logger.String("group_id", groupID),
			logger.Error(err),
		)
	}
}
