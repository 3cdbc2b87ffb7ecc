// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fixturepick/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LookupDependencies
	SessionDependencies
	StatsProvider
	ReadyProvider
}

// LookupDependencies exposes the catalog lookups.
type LookupDependencies interface {
	Countries(ctx context.Context) ([]string, error)
	Leagues(ctx context.Context, country string) ([]string, error)
	Teams(ctx context.Context, league string) ([]string, error)
	Dates() []string
}

// SessionDependencies exposes picker sessions.
type SessionDependencies interface {
	NewSession(ctx context.Context) (SessionView, error)
	Session(ctx context.Context, id string) (SessionView, error)
	Apply(ctx context.Context, id, field, value string) (SessionView, error)
	Discard(ctx context.Context, id string) error
}

// SessionView mirrors the read shape returned by session operations.
type SessionView = types.SessionView

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	lookupHandler  *LookupHandler
	sessionHandler *SessionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		lookupHandler:  NewLookupHandler(deps),
		sessionHandler: NewSessionHandler(deps),
	}
}

// Routes returns a router serving every API route.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Get("/countries", MetricsMiddleware(s.lookupHandler.HandleCountries, "countries"))
	r.Get("/leagues", MetricsMiddleware(s.lookupHandler.HandleLeagues, "leagues"))
	r.Get("/teams", MetricsMiddleware(s.lookupHandler.HandleTeams, "teams"))
	r.Get("/dates", MetricsMiddleware(s.lookupHandler.HandleDates, "dates"))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.sessionHandler.HandleCreate, "sessions"))
		r.Get("/{id}", MetricsMiddleware(s.sessionHandler.HandleGet, "session"))
		r.Patch("/{id}", MetricsMiddleware(s.sessionHandler.HandlePatch, "session"))
		r.Delete("/{id}", MetricsMiddleware(s.sessionHandler.HandleDelete, "session"))
	})
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

// writeFailure classifies err and writes the matching error response.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
