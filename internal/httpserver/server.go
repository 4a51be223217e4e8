package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/config"
	"github.com/lugatuic/ldapuser/middleware"
	"github.com/lugatuic/ldapuser/server"
)

// SessionStore is the session backend the server needs, including readiness.
type SessionStore interface {
	server.SessionStore
	Ping(ctx context.Context) error
}

// Server composes dependencies and constructs the HTTP handler graph.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	authn  server.Authenticator
	store  SessionStore
	mux    *http.ServeMux
}

// New creates a Server.
func New(cfg *config.Config, logger *zap.Logger, authn server.Authenticator, store SessionStore) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		authn:  authn,
		store:  store,
		mux:    http.NewServeMux(),
	}
}

// Handler wires routes and middleware, returning the root handler.
func (s *Server) Handler() http.Handler {
	// Health endpoints
	s.mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("readyz.ping_failed", zap.Error(err))
			respondJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		respondJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Business routes
	sessionApp := appHandler(func(w http.ResponseWriter, r *http.Request) error {
		switch r.Method {
		case http.MethodPost:
			return server.HandleCreateSession(s.authn, s.store, w, r)
		case http.MethodGet:
			return server.HandleGetSession(s.store, w, r)
		case http.MethodDelete:
			return server.HandleDeleteSession(s.store, w, r)
		default:
			respondJSON(s.logger, w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return nil
		}
	})

	s.mux.Handle("/v1/session", s.makeAppHandler(sessionApp))

	// Mat-style middleware stack: Recover (outer), RequestID, Logger.
	var handler http.Handler = s.mux
	handler = middleware.Logger(s.logger, handler)
	handler = middleware.RequestID(handler) // adds X-Request-ID if missing
	handler = middleware.Recover(s.logger, handler)

	return handler
}

// appHandler is an application handler that returns an error.
// Errors are logged and translated to HTTP responses by the adapter.
type appHandler func(http.ResponseWriter, *http.Request) error

// makeAppHandler adapts appHandler to http.Handler with sanitized error responses.
func (s *Server) makeAppHandler(fn appHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.logger.Error("handler.error",
				zap.Error(err),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			)
			// Return a generic 500 with JSON (do not leak internal details).
			respondJSON(s.logger, w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
	})
}

// respondJSON writes a JSON response with proper headers.
func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("respond_json.encode_error", zap.Error(err))
		_, _ = w.Write([]byte("\n"))
	}
}
