// apps/go-server/internal/httpserver/routes_game.go
//
// Game and leaderboard routes.
//   - GET /fire                                   → current board (starts a match if needed)
//   - GET /fire/{row}/{column}                    → fire at a cell
//   - GET /fire/{row}/{column}/avenger/{ability}  → fire and use an Avenger ability
//   - GET /reset                                  → restart (simulation: spend a retry)
//   - GET /status                                 → progress counters (read-only)
//   - GET /leaderboard?mapCount=&limit=           → best finished games
//
// Every game route accepts ?test=true to address the caller's simulation
// session instead of the real one.

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/results"
	"github.com/robalobadob/battleships/apps/go-server/internal/session"
)

// mountGame registers the game routes on r.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/fire", s.handleFireStatus)
	r.Get("/fire/{row}/{column}", s.handleFire)
	r.Get("/fire/{row}/{column}/avenger/{ability}", s.handleFireWithAbility)
	r.Get("/reset", s.handleReset)
	r.Get("/status", s.handleStatus)
}

// gameRequest builds the session request from identity and ?test.
func gameRequest(r *http.Request) (session.Request, error) {
	req := session.Request{Identity: identityFrom(r)}
	if v := r.URL.Query().Get("test"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: test must be a boolean, got %q", game.ErrValidation, v)
		}
		req.Simulate = b
	}
	return req, nil
}

// coords reads {row} and {column} from the route.
func coords(r *http.Request) (row, col int, err error) {
	if row, err = strconv.Atoi(chi.URLParam(r, "row")); err != nil {
		return 0, 0, fmt.Errorf("%w: row must be an integer", game.ErrValidation)
	}
	if col, err = strconv.Atoi(chi.URLParam(r, "column")); err != nil {
		return 0, 0, fmt.Errorf("%w: column must be an integer", game.ErrValidation)
	}
	return row, col, nil
}

func (s *Server) handleFireStatus(w http.ResponseWriter, r *http.Request) {
	req, err := gameRequest(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp, err := s.games.FireStatus(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	req, err := gameRequest(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	row, col, err := coords(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp, err := s.games.Fire(r.Context(), req, row, col)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleFireWithAbility(w http.ResponseWriter, r *http.Request) {
	req, err := gameRequest(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	row, col, err := coords(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp, err := s.games.FireWithAbility(r.Context(), req, row, col, chi.URLParam(r, "ability"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	req, err := gameRequest(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp, err := s.games.Reset(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	req, err := gameRequest(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	resp, err := s.games.Status(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, resp)
}

// -----------------------------------------------------------------------------
// /leaderboard

// lbRes is returned by /leaderboard.
type lbRes struct {
	MapCount int           `json:"mapCount"`
	Top      []results.Row `json:"top"`
}

// handleLeaderboard returns the best results for a map count (default: the
// server's configured count).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mapCount, limit := s.opts.MapCount, 20
	q := r.URL.Query()
	if v := q.Get("mapCount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fail(w, r, fmt.Errorf("%w: mapCount must be a positive integer", game.ErrValidation))
			return
		}
		mapCount = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			fail(w, r, fmt.Errorf("%w: limit must be between 1 and 100", game.ErrValidation))
			return
		}
		limit = n
	}

	top := []results.Row{}
	if s.opts.Leaderboard != nil {
		rows, err := s.opts.Leaderboard.Leaderboard(r.Context(), mapCount, limit)
		if err != nil {
			fail(w, r, err)
			return
		}
		if rows != nil {
			top = rows
		}
	}
	writeJSON(w, lbRes{MapCount: mapCount, Top: top})
}
