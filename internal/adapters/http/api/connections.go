package api

import (
	"context"
	"net/http"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
)

// ConnectionDependencies defines the interface for connection operations.
type ConnectionDependencies interface {
	SendConnection(ctx context.Context, from, to string) (model.Connection, error)
	RespondConnection(ctx context.Context, user1, user2 string, status model.Status) (model.Connection, error)
	Connections(ctx context.Context, email string) ([]model.Connection, error)
}

// ConnectionHandler handles connection requests between users.
type ConnectionHandler struct {
	deps   ConnectionDependencies
	logger logger.Logger
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(deps ConnectionDependencies, log logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{deps: deps, logger: log}
}

type connectionsResponse struct {
	Connections []model.Connection `json:"connections"`
}

// HandleSend handles POST /api/connections.
func (h *ConnectionHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	const op = "api.send_connection"
	var req connectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.User1Email, &req.User2Email)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	c, err := h.deps.SendConnection(r.Context(), req.User1Email, req.User2Email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleRespond handles POST /api/connections/respond.
func (h *ConnectionHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	const op = "api.respond_connection"
	var req connectionResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	trimStrings(&req.User1Email, &req.User2Email)
	if err := validate.Struct(req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, validationError(err)))
		return
	}
	c, err := h.deps.RespondConnection(r.Context(), req.User1Email, req.User2Email, req.Status)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleList handles GET /api/connections?email=.
func (h *ConnectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_connections"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	list, err := h.deps.Connections(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if list == nil {
		list = []model.Connection{}
	}
	writeJSON(w, http.StatusOK, connectionsResponse{Connections: list})
}
