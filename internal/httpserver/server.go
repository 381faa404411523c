// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the battleships backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/leaderboard", "/ws".
//   - Game endpoints (caller token required): /fire, /reset, /status.
//   - Mapping of domain errors to HTTP status codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - /ws is mounted outside the timeout group; the connection is long-lived.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/results"
	"github.com/robalobadob/battleships/apps/go-server/internal/session"
)

// Leaderboard is the read side of the results store.
type Leaderboard interface {
	Leaderboard(ctx context.Context, mapCount, limit int) ([]results.Row, error)
}

type Options struct {
	ClientOrigin string
	JWTSecret    string
	// MapCount is the default map count shown on the leaderboard.
	MapCount      int
	Leaderboard   Leaderboard
	Notifications http.Handler
}

// Server bundles the router and the game session manager.
type Server struct {
	r     *chi.Mux
	games *session.Manager
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(games *session.Manager, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), games: games, opts: opts}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors(opts.ClientOrigin))

	if opts.Notifications != nil {
		s.r.Get("/ws", opts.Notifications.ServeHTTP)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"battleships-go","endpoints":["/health","/fire","/fire/{row}/{column}","/fire/{row}/{column}/avenger/{ability}","/reset","/status","/leaderboard","/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/leaderboard", s.handleLeaderboard)

		s.mountGame(r.With(requireIdentity(opts.JWTSecret)))

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Handler exposes the router (also used by tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- replies -----------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// fail maps a domain error onto an HTTP status.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoIdentity):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, game.ErrInvalidSession):
		writeError(w, http.StatusNotFound, game.ErrInvalidSession.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "busy")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("requestId", chimw.GetReqID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
