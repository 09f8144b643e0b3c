// Package api provides the HTTP API for HelpMatch.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger

	users   *UserHandler
	tasks   *TaskHandler
	invites *InviteHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, users *UserHandler, tasks *TaskHandler, invites *InviteHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		users:   users,
		tasks:   tasks,
		invites: invites,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestContext(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/v1/users", s.users.Register)
	s.mux.HandleFunc("GET /api/v1/users/me", s.users.GetMe)
	s.mux.HandleFunc("PUT /api/v1/users/me", s.users.UpdateProfile)

	s.mux.HandleFunc("POST /api/v1/tasks", s.tasks.Create)
	s.mux.HandleFunc("GET /api/v1/tasks/relevant", s.tasks.ListRelevant)
	s.mux.HandleFunc("GET /api/v1/tasks/mine", s.tasks.ListMine)
	s.mux.HandleFunc("GET /api/v1/tasks/{taskID}", s.tasks.Get)
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/start", s.tasks.Start)
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/complete", s.tasks.Complete)
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/cancel", s.tasks.Cancel)
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/unassign", s.tasks.Unassign)

	s.mux.HandleFunc("POST /api/v1/invites", s.invites.Send)
	s.mux.HandleFunc("GET /api/v1/invites/incoming", s.invites.ListIncoming)
	s.mux.HandleFunc("POST /api/v1/invites/{inviteID}/respond", s.invites.Respond)
}

// withRequestContext attaches a request ID and correlation ID to every
// request so they flow into log entries.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get("X-Correlation-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// callerID extracts the authenticated user from the X-User-ID header.
// Session issuance lives outside this service; the gateway forwards the
// verified identity in this header.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, sharedDomain.NewError(sharedDomain.KindUnauthorized, "missing caller identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, sharedDomain.NewError(sharedDomain.KindUnauthorized, "invalid caller identity")
	}
	return id, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeDomainError maps a domain error kind to an HTTP status.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError

	switch sharedDomain.KindOf(err) {
	case sharedDomain.KindUnauthorized:
		status = http.StatusUnauthorized
	case sharedDomain.KindForbidden:
		status = http.StatusForbidden
	case sharedDomain.KindNotFound:
		status = http.StatusNotFound
	case sharedDomain.KindInvalidOperation:
		status = http.StatusBadRequest
	case sharedDomain.KindConflict:
		status = http.StatusConflict
	case sharedDomain.KindUpstreamUnavailable:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeError(w, status, "Internal server error")
		return
	}

	writeError(w, status, err.Error())
}
