package api

import (
	"context"
	"net/http"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
)

// MatchDependencies defines the interface for ranking operations.
type MatchDependencies interface {
	Matches(ctx context.Context, email string) (types.MatchPage, error)
	MatchProfile(ctx context.Context, subject model.Profile) (types.MatchPage, error)
}

// MatchHandler handles match requests.
type MatchHandler struct {
	deps   MatchDependencies
	logger logger.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, log logger.Logger) *MatchHandler {
	return &MatchHandler{deps: deps, logger: log}
}

// HandleGetMatches handles GET /api/matches?email= for a stored profile.
func (h *MatchHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	email, err := emailParam(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.Matches(r.Context(), email)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandlePostMatches handles POST /api/matches for an unsaved profile body.
// The body is not validated against the form rules; the scorer accepts
// partial profiles.
func (h *MatchHandler) HandlePostMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_matches"
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.MatchProfile(r.Context(), req.profile())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
