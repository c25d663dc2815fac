package api

import (
	"context"
	"net/http"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/logger"
)

// ProfileDependencies defines the interface for profile operations.
type ProfileDependencies interface {
	GetProfile(ctx context.Context, email string) (model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) (int, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps   ProfileDependencies
	logger logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: log}
}

// HandleGetProfile handles GET /api/profile?email= requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.GetProfile(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSaveProfile handles POST /api/profile requests.
func (h *ProfileHandler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_profile"
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	p := req.profile()
	if err := validateProfile(p); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	n, err := h.deps.SaveProfile(r.Context(), p)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true, Affected: n})
}
