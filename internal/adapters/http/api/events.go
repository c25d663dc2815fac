package api

import (
	"context"
	"net/http"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
)

// EventDependencies defines the interface for calendar event and
// invitation operations.
type EventDependencies interface {
	SyncEvents(ctx context.Context, email, accessToken string) ([]model.Event, error)
	Events(ctx context.Context, email string) ([]model.Event, error)
	Event(ctx context.Context, id, email string) (model.Event, error)
	Teammates(ctx context.Context, eventID, email string) (types.MatchPage, error)
	Invite(ctx context.Context, inv model.Invitation) (model.Invitation, error)
	Invitations(ctx context.Context, email string) ([]model.Invitation, error)
	RespondInvitation(ctx context.Context, id string, status model.Status) (model.Invitation, error)
}

// EventsHandler handles event and invitation requests.
type EventsHandler struct {
	deps   EventDependencies
	logger logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, log logger.Logger) *EventsHandler {
	return &EventsHandler{deps: deps, logger: log}
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
}

type invitationsResponse struct {
	Invitations []model.Invitation `json:"invitations"`
}

// HandleSync handles POST /api/events/sync. The access token is used for
// this request only and never stored.
func (h *EventsHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.sync_events"
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.Email, &req.AccessToken)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	events, err := h.deps.SyncEvents(r.Context(), req.Email, req.AccessToken)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: nonNilEvents(events)})
}

// HandleList handles GET /api/events?email=.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	events, err := h.deps.Events(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: nonNilEvents(events)})
}

// HandleGet handles GET /api/events/{id}?email=.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	e, err := h.deps.Event(r.Context(), r.PathValue("id"), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleTeammates handles GET /api/events/{id}/teammates?email=.
func (h *EventsHandler) HandleTeammates(w http.ResponseWriter, r *http.Request) {
	const op = "api.teammates"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.Teammates(r.Context(), r.PathValue("id"), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleInvite handles POST /api/events/invite.
func (h *EventsHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	const op = "api.invite"
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.EventID, &req.InviterEmail, &req.InviteeEmail)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	inv, err := h.deps.Invite(r.Context(), model.Invitation{
		EventID:      req.EventID,
		InviterEmail: req.InviterEmail,
		InviteeEmail: req.InviteeEmail,
	})
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// HandleListInvitations handles GET /api/invitations?email=.
func (h *EventsHandler) HandleListInvitations(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_invitations"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	list, err := h.deps.Invitations(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if list == nil {
		list = []model.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitationsResponse{Invitations: list})
}

// HandleRespondInvitation handles POST /api/invitations/{id}/respond.
func (h *EventsHandler) HandleRespondInvitation(w http.ResponseWriter, r *http.Request) {
	const op = "api.respond_invitation"
	var req invitationResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	inv, err := h.deps.RespondInvitation(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func nonNilEvents(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
