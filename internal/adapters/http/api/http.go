// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/crewmatch/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileDependencies
	MatchDependencies
	GroupDependencies
	ConnectionDependencies
	EventDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	profileHandler    *ProfileHandler
	matchHandler      *MatchHandler
	groupHandler      *GroupHandler
	connectionHandler *ConnectionHandler
	eventsHandler     *EventsHandler

	corsOrigins []string
	rateRPS     float64
	rateBurst   int
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		corsOrigins: []string{"*"},
		logger:      logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.profileHandler = NewProfileHandler(deps, s.logger)
	s.matchHandler = NewMatchHandler(deps, s.logger)
	s.groupHandler = NewGroupHandler(deps, s.logger)
	s.connectionHandler = NewConnectionHandler(deps, s.logger)
	s.eventsHandler = NewEventsHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /health", MetricsMiddleware(s.healthHandler.HandleLiveness, "health"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/profile", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("POST /api/profile", MetricsMiddleware(s.profileHandler.HandleSaveProfile, "profile"))

	mux.HandleFunc("GET /api/matches", MetricsMiddleware(s.matchHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("POST /api/matches", MetricsMiddleware(s.matchHandler.HandlePostMatches, "matches"))

	mux.HandleFunc("POST /api/groups", MetricsMiddleware(s.groupHandler.HandleCreateGroup, "groups"))
	mux.HandleFunc("GET /api/groups", MetricsMiddleware(s.groupHandler.HandleListGroups, "groups"))
	mux.HandleFunc("GET /api/groups/{id}", MetricsMiddleware(s.groupHandler.HandleGetGroup, "group"))
	mux.HandleFunc("POST /api/groups/{id}/members", MetricsMiddleware(s.groupHandler.HandleAddMember, "group_members"))
	mux.HandleFunc("DELETE /api/groups/{id}/members/{email}", MetricsMiddleware(s.groupHandler.HandleRemoveMember, "group_members"))
	mux.HandleFunc("POST /api/groups/{id}/messages", MetricsMiddleware(s.groupHandler.HandlePostMessage, "group_messages"))
	mux.HandleFunc("GET /api/groups/{id}/messages", MetricsMiddleware(s.groupHandler.HandleListMessages, "group_messages"))
	mux.HandleFunc("GET /api/groups/{id}/ws", s.groupHandler.HandleStream)

	mux.HandleFunc("POST /api/connections", MetricsMiddleware(s.connectionHandler.HandleSend, "connections"))
	mux.HandleFunc("GET /api/connections", MetricsMiddleware(s.connectionHandler.HandleList, "connections"))
	mux.HandleFunc("POST /api/connections/respond", MetricsMiddleware(s.connectionHandler.HandleRespond, "connections_respond"))

	mux.HandleFunc("POST /api/events/sync", MetricsMiddleware(s.eventsHandler.HandleSync, "events_sync"))
	mux.HandleFunc("POST /api/events/invite", MetricsMiddleware(s.eventsHandler.HandleInvite, "events_invite"))
	mux.HandleFunc("GET /api/events", MetricsMiddleware(s.eventsHandler.HandleList, "events"))
	mux.HandleFunc("GET /api/events/{id}", MetricsMiddleware(s.eventsHandler.HandleGet, "event"))
	mux.HandleFunc("GET /api/events/{id}/teammates", MetricsMiddleware(s.eventsHandler.HandleTeammates, "event_teammates"))
	mux.HandleFunc("GET /api/invitations", MetricsMiddleware(s.eventsHandler.HandleListInvitations, "invitations"))
	mux.HandleFunc("POST /api/invitations/{id}/respond", MetricsMiddleware(s.eventsHandler.HandleRespondInvitation, "invitations_respond"))
}

// Handler wraps next with the CORS and rate limiting middleware.
func (s *Server) Handler(next http.Handler) http.Handler {
	return CORSMiddleware(s.corsOrigins)(RateLimitMiddleware(s.rateRPS, s.rateBurst)(next))
}

type okResponse struct {
	OK       bool `json:"ok"`
	Affected int  `json:"affected,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes it. Server errors are logged and
// their detail is withheld from the client.
func writeFailure(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// emailParam returns the trimmed email query parameter.
func emailParam(r *http.Request) (string, error) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		return "", ErrMissingEmail
	}
	return email, nil
}
