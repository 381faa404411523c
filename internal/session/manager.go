// apps/go-server/internal/session/manager.go
//
// Manager runs game operations statelessly on top of a keyed store.
// Every call follows the same sequence under the session's lock:
//
//	derive key → lock → load blob → restore → operate → snapshot → save → notify
//
// Notes:
//   - Calls for the same identity+simulation pair are linearized; different
//     sessions proceed in parallel.
//   - A missing or unreadable blob starts a fresh session (Status fails).
//   - Finished games are recorded on the leaderboard on a best-effort basis.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
	"github.com/robalobadob/battleships/apps/go-server/internal/results"
	"github.com/robalobadob/battleships/apps/go-server/internal/store"
)

// ErrNoIdentity is returned when a request carries no caller identity.
var ErrNoIdentity = errors.New("session: missing caller identity")

// DefaultTTL is the sliding lifetime of a stored session.
const DefaultTTL = 7 * 24 * time.Hour

// Sink receives the public state after every mutating call.
type Sink interface {
	Publish(session string, n game.Notification)
}

// Recorder persists finished games.
type Recorder interface {
	Record(ctx context.Context, r results.Result) error
}

// Request identifies the session an operation applies to.
type Request struct {
	Identity string
	Simulate bool
}

type Config struct {
	Game game.Config
	TTL  time.Duration
}

type Option func(*Manager)

func WithSink(s Sink) Option { return func(m *Manager) { m.sink = s } }
func WithRecorder(r Recorder) Option { return func(m *Manager) { m.recorder = r } }
func WithBoards(b game.BoardSupplier) Option { return func(m *Manager) { m.boards = b } }
func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

type Manager struct {
	cfg      Config
	store    store.Store
	locks    *Locks
	sink     Sink
	recorder Recorder
	boards   game.BoardSupplier
	log      zerolog.Logger
}

func NewManager(st store.Store, cfg Config, opts ...Option) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	m := &Manager{
		cfg:   cfg,
		store: st,
		locks: NewLocks(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ---------------------------------------------------------------------------
// operations

func (m *Manager) FireStatus(ctx context.Context, req Request) (resp game.FireResponse, err error) {
	err = m.run(ctx, req, false, func(o *game.Orchestrator) (err error) {
		resp, err = o.FireStatus()
		return err
	})
	return resp, err
}

func (m *Manager) Fire(ctx context.Context, req Request, row, col int) (resp game.FireResponse, err error) {
	p, err := m.position(row, col)
	if err != nil {
		return resp, err
	}
	err = m.run(ctx, req, false, func(o *game.Orchestrator) (err error) {
		resp, err = o.Fire(p)
		return err
	})
	return resp, err
}

func (m *Manager) FireWithAbility(ctx context.Context, req Request, row, col int, ability string) (resp game.AbilityFireResponse, err error) {
	p, err := m.position(row, col)
	if err != nil {
		return resp, err
	}
	a, err := game.ParseAbility(ability)
	if err != nil {
		return resp, err
	}
	err = m.run(ctx, req, false, func(o *game.Orchestrator) (err error) {
		resp, err = o.FireWithAbility(p, a)
		return err
	})
	return resp, err
}

func (m *Manager) Reset(ctx context.Context, req Request) (resp game.ResetResponse, err error) {
	err = m.run(ctx, req, false, func(o *game.Orchestrator) (err error) {
		resp, err = o.Reset(req.Simulate)
		return err
	})
	return resp, err
}

func (m *Manager) Status(ctx context.Context, req Request) (resp game.StatusResponse, err error) {
	err = m.run(ctx, req, true, func(o *game.Orchestrator) (err error) {
		resp, err = o.Status()
		return err
	})
	return resp, err
}

// Sweep drops expired sessions from the store.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	return m.store.Sweep(ctx, time.Now())
}

// ---------------------------------------------------------------------------
// internals

func (m *Manager) position(row, col int) (grid.Position, error) {
	rows, cols := m.cfg.Game.Rows, m.cfg.Game.Columns
	if rows <= 0 {
		rows = game.Rows
	}
	if cols <= 0 {
		cols = game.Columns
	}
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return grid.Position{}, fmt.Errorf("%w: position (%d,%d) outside %dx%d board", game.ErrValidation, row, col, rows, cols)
	}
	return grid.Position{Row: row, Col: col}, nil
}

func (m *Manager) run(ctx context.Context, req Request, readOnly bool, op func(*game.Orchestrator) error) error {
	if req.Identity == "" {
		return ErrNoIdentity
	}
	key := DeriveKey(req.Identity, req.Simulate)
	log := m.log.With().Str("session", key).Logger()

	release, err := m.locks.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	var events []game.Notification
	o := game.New(m.cfg.Game,
		game.WithBoards(m.boards),
		game.WithLogger(log),
		game.WithNotifier(func(n game.Notification) { events = append(events, n) }),
	)

	blob, err := m.store.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	default:
		if err := o.Restore(blob); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable session")
		}
	}

	if err := op(o); err != nil {
		if errors.Is(err, game.ErrInvariant) {
			log.Error().Err(err).Msg("game invariant violated")
		}
		return err
	}
	if readOnly || !o.HasSession() {
		return nil
	}

	out, err := o.Snapshot()
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, key, out, m.cfg.TTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if m.sink != nil {
		for _, n := range events {
			m.sink.Publish(key, n)
		}
	}
	m.recordIfFinished(ctx, log, req, o.Session().State, len(events) > 0)
	return nil
}

func (m *Manager) recordIfFinished(ctx context.Context, log zerolog.Logger, req Request, s *game.State, changed bool) {
	if m.recorder == nil || !changed || s == nil || !s.GameFinished {
		return
	}
	err := m.recorder.Record(ctx, results.Result{
		MatchID:    s.MatchID,
		Player:     PlayerID(req.Identity),
		Simulation: req.Simulate,
		MapCount:   s.MapCount,
		TotalMoves: s.TotalMoveCount,
	})
	if err != nil {
		log.Warn().Err(err).Str("match", s.MatchID).Msg("record result")
		return
	}
	log.Info().Str("match", s.MatchID).Int("totalMoves", s.TotalMoveCount).Msg("game finished")
}
