// apps/go-server/internal/game/engine.go
//
// Match orchestrator: the state machine of one battleships session.
// Responsibilities:
//   - Create matches and per-map boards through an injected BoardSupplier.
//   - Resolve plain shots and ability shots against the hidden board.
//   - Auto-advance to the next map / restart the match once a map is cleared.
//   - Reset, status and snapshot/restore of the whole session.
//
// Notes:
//   - An Orchestrator is not safe for concurrent use; callers serialize
//     access per session (see internal/session).
//   - Every mutating call reports the resulting public state to the
//     notifier passed with WithNotifier.
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/battleships/apps/go-server/internal/commitment"
	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
)

// BoardSupplier produces the flattened ship layout of a new map.
type BoardSupplier interface {
	Layout(rows, cols int) ([]int, error)
}

// BoardSupplierFunc adapts a plain function to BoardSupplier.
type BoardSupplierFunc func(rows, cols int) ([]int, error)

func (f BoardSupplierFunc) Layout(rows, cols int) ([]int, error) { return f(rows, cols) }

// Config holds the match parameters. Zero values fall back to the defaults
// (12×12 board, one map, DefaultRetries).
type Config struct {
	Rows       int
	Columns    int
	MapCount   int
	MaxRetries int
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithBoards replaces the randomized fleet generator.
func WithBoards(b BoardSupplier) Option { return func(o *Orchestrator) { o.boards = b } }

// WithRand sets the random source used by the default generator and by
// the Thor / Ironman abilities.
func WithRand(r fleet.Rand) Option { return func(o *Orchestrator) { o.rng = r } }

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option { return func(o *Orchestrator) { o.log = l } }

// WithNotifier registers the callback that receives the public state after
// every mutating call.
func WithNotifier(fn func(Notification)) Option { return func(o *Orchestrator) { o.notify = fn } }

// Orchestrator drives one session.
type Orchestrator struct {
	cfg    Config
	boards BoardSupplier
	rng    fleet.Rand
	log    zerolog.Logger
	notify func(Notification)

	state   *State
	retries int
}

// New constructs an orchestrator without a session.
func New(cfg Config, opts ...Option) *Orchestrator {
	if cfg.Rows <= 0 {
		cfg.Rows = Rows
	}
	if cfg.Columns <= 0 {
		cfg.Columns = Columns
	}
	if cfg.MapCount <= 0 {
		cfg.MapCount = 1
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRetries
	}
	o := &Orchestrator{
		cfg:     cfg,
		rng:     fleet.DefaultRand,
		log:     zerolog.Nop(),
		retries: cfg.MaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.boards == nil {
		o.boards = fleet.NewGenerator(o.rng)
	}
	return o
}

// ---------------------------------------------------------------------------
// session lifecycle

// Restore replaces the current session with the decoded blob. A missing or
// corrupt blob drops the session (the next operation starts fresh) and is
// reported as ErrInvalidSession.
func (o *Orchestrator) Restore(blob []byte) error {
	sess, err := DecodeSession(blob)
	if err != nil {
		o.state, o.retries = nil, o.cfg.MaxRetries
		return err
	}
	o.state, o.retries = sess.State, sess.RemainingRetries
	return nil
}

// Snapshot encodes the current session.
func (o *Orchestrator) Snapshot() ([]byte, error) {
	return EncodeSession(o.Session())
}

// HasSession reports whether a match exists.
func (o *Orchestrator) HasSession() bool { return o.state != nil }

// Session exposes the current session. State is nil when none exists.
func (o *Orchestrator) Session() Session {
	return Session{State: o.state, RemainingRetries: o.retries}
}

// ---------------------------------------------------------------------------
// operations

// FireStatus returns the current board without firing, starting a match
// if none exists.
func (o *Orchestrator) FireStatus() (FireResponse, error) {
	if o.state == nil {
		if err := o.initializeMatch(); err != nil {
			return FireResponse{}, err
		}
		o.emit()
	}
	return o.baseResponse(), nil
}

// Fire shoots at p.
func (o *Orchestrator) Fire(p grid.Position) (FireResponse, error) {
	exhausted, err := o.prepare()
	if err != nil {
		return FireResponse{}, err
	}
	if exhausted {
		return o.baseResponse(), nil
	}

	s := o.state
	if !s.Revealed.Contains(p) || s.Revealed.At(s.Revealed.IndexOf(p)) != MarkUnknown {
		o.emit()
		return o.baseResponse(), nil
	}

	mark, err := s.revealAt(s.Revealed.IndexOf(p))
	if err != nil {
		return FireResponse{}, err
	}
	s.MoveCount++
	s.TotalMoveCount++
	s.evaluate()

	resp := o.baseResponse()
	resp.Cell, resp.Result = mark.String(), true
	if s.MatchFinished {
		resp.MapID++
		o.log.Debug().Str("match", s.MatchID).Int("mapId", s.MapIndex).Int("moves", s.MoveCount).Msg("map cleared")
	}
	o.emit()
	return resp, nil
}

// FireWithAbility shoots at p and then triggers the ability. The ability
// must have been unlocked on the current map. Hulk may target a cell that
// was already revealed.
func (o *Orchestrator) FireWithAbility(p grid.Position, a Ability) (AbilityFireResponse, error) {
	if !a.valid() {
		return AbilityFireResponse{}, fmt.Errorf("%w: unknown ability %q", ErrValidation, string(a))
	}
	exhausted, err := o.prepare()
	if err != nil {
		return AbilityFireResponse{}, err
	}
	rejected := func() AbilityFireResponse {
		return AbilityFireResponse{FireResponse: o.baseResponse(), AbilityResult: []AbilityResult{}}
	}
	if exhausted {
		return rejected(), nil
	}

	s := o.state
	if !s.AbilityAvailable || !s.Revealed.Contains(p) {
		o.emit()
		return rejected(), nil
	}
	idx := s.Revealed.IndexOf(p)
	if s.Revealed.At(idx) != MarkUnknown && a != Hulk {
		o.emit()
		return rejected(), nil
	}

	mark, err := s.revealAt(idx)
	if err != nil {
		return AbilityFireResponse{}, err
	}
	s.AbilityUsed, s.AbilityAvailable = true, false
	s.MoveCount++
	s.TotalMoveCount++

	var results []AbilityResult
	switch a {
	case Thor:
		results, err = thorStrike(s, o.rng)
	case Ironman:
		results = ironmanHint(s, o.rng)
	case Hulk:
		results, err = hulkSmash(s, p)
	}
	if err != nil {
		return AbilityFireResponse{}, err
	}
	s.evaluate()

	resp := AbilityFireResponse{FireResponse: o.baseResponse(), AbilityResult: results}
	resp.Cell, resp.Result = mark.String(), true
	if s.MatchFinished {
		resp.MapID++
	}
	o.log.Debug().Str("match", s.MatchID).Str("ability", string(a)).Int("touched", len(results)).Msg("ability used")
	o.emit()
	return resp, nil
}

// Reset either burns one retry (simulate) or restarts the match.
func (o *Orchestrator) Reset(simulate bool) (ResetResponse, error) {
	if o.state == nil {
		return ResetResponse{}, ErrInvalidSession
	}
	if simulate {
		o.retries = max(o.retries-1, 0)
	} else if err := o.initializeMatch(); err != nil {
		return ResetResponse{}, err
	}
	o.emit()
	return ResetResponse{RemainingRetries: o.retries}, nil
}

// Status is the read-only progress projection.
func (o *Orchestrator) Status() (StatusResponse, error) {
	if o.state == nil {
		return StatusResponse{}, ErrInvalidSession
	}
	s := o.state
	return StatusResponse{
		MapID:          s.MapIndex,
		MapCount:       s.MapCount,
		MoveCount:      s.MoveCount,
		TotalMoveCount: s.TotalMoveCount,
	}, nil
}

// ---------------------------------------------------------------------------
// internals

// prepare makes sure a playable map exists. It reports exhausted=true when
// the match is over and nothing may change.
func (o *Orchestrator) prepare() (exhausted bool, err error) {
	if o.state == nil {
		return false, o.initializeMatch()
	}
	s := o.state
	if !s.MatchFinished {
		return false, nil
	}
	switch {
	case s.MapIndex >= s.MapCount:
		return true, nil
	case s.MapIndex < s.MapCount-1:
		return false, o.nextMap()
	default:
		return false, o.initializeMatch()
	}
}

// initializeMatch starts a brand-new match at map 0.
func (o *Orchestrator) initializeMatch() error {
	b, err := o.drawBoard(o.cfg.Rows, o.cfg.Columns)
	if err != nil {
		return err
	}
	s := newState(o.cfg.Rows, o.cfg.Columns, o.cfg.MapCount)
	s.MatchID = uuid.NewString()
	s.install(b)
	o.state = s
	o.log.Debug().Str("match", s.MatchID).Int("mapCount", s.MapCount).Msg("match started")
	return nil
}

// nextMap moves to the following map, keeping TotalMoveCount. The state is
// only touched once the new board is in hand.
func (o *Orchestrator) nextMap() error {
	s := o.state
	b, err := o.drawBoard(s.Rows(), s.Columns())
	if err != nil {
		return err
	}
	s.MapIndex++
	s.MatchFinished = false
	s.GameFinished = false
	s.AbilityAvailable = false
	s.AbilityUsed = false
	s.MoveCount = 0
	s.install(b)
	return nil
}

// drawBoard fetches the next layout and commits to it without changing any
// session state. A layout of the wrong size is returned uncommitted.
func (o *Orchestrator) drawBoard(rows, cols int) (board, error) {
	layout, err := o.boards.Layout(rows, cols)
	if err != nil {
		return board{}, fmt.Errorf("generate board: %w", err)
	}
	if len(layout) != rows*cols {
		o.log.Warn().Int("got", len(layout)).Int("want", rows*cols).Msg("board layout size mismatch; map left undefined")
		return board{layout: layout}, nil
	}
	salt, err := commitment.NewSalt()
	if err != nil {
		return board{}, err
	}
	c, err := commitment.Commit(layout, salt)
	if err != nil {
		return board{}, fmt.Errorf("commit board: %w", err)
	}
	return board{layout: layout, salt: salt, commitment: c}, nil
}

func (o *Orchestrator) baseResponse() FireResponse {
	s := o.state
	return FireResponse{
		Grid:             s.RevealedString(),
		AbilityAvailable: s.AbilityAvailable,
		MapID:            s.MapIndex,
		MapCount:         s.MapCount,
		MoveCount:        s.MoveCount,
		Finished:         s.GameFinished,
		Commitment:       s.Commitment,
	}
}

func (o *Orchestrator) emit() {
	if o.notify != nil && o.state != nil {
		o.notify(o.state.Notification())
	}
}
