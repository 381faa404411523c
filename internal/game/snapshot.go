package game

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
)

// snapshotVersion is bumped whenever the persisted layout changes shape.
const snapshotVersion = 1

var errCorrupt = errors.New("corrupt snapshot")

type snapshot struct {
	Version int       `msgpack:"v"`
	Retries int       `msgpack:"retries"`
	State   *stateDTO `msgpack:"state"`
}

type stateDTO struct {
	MatchID          string           `msgpack:"matchId"`
	Rows             int              `msgpack:"rows"`
	Columns          int              `msgpack:"cols"`
	MapIndex         int              `msgpack:"mapIndex"`
	MapCount         int              `msgpack:"mapCount"`
	MoveCount        int              `msgpack:"moves"`
	TotalMoveCount   int              `msgpack:"totalMoves"`
	AbilityAvailable bool             `msgpack:"abilityAvailable"`
	AbilityUsed      bool             `msgpack:"abilityUsed"`
	MatchFinished    bool             `msgpack:"matchFinished"`
	GameFinished     bool             `msgpack:"gameFinished"`
	Revealed         string           `msgpack:"revealed"`
	Definition       []CellDefinition `msgpack:"definition"`
	Commitment       string           `msgpack:"commitment"`
	Salt             string           `msgpack:"salt"`
}

// EncodeSession serializes a session into an opaque blob.
func EncodeSession(sess Session) ([]byte, error) {
	if sess.State == nil {
		return nil, fmt.Errorf("encode session: %w", ErrInvalidSession)
	}
	s := sess.State
	b, err := msgpack.Marshal(&snapshot{
		Version: snapshotVersion,
		Retries: sess.RemainingRetries,
		State: &stateDTO{
			MatchID:          s.MatchID,
			Rows:             s.Rows(),
			Columns:          s.Columns(),
			MapIndex:         s.MapIndex,
			MapCount:         s.MapCount,
			MoveCount:        s.MoveCount,
			TotalMoveCount:   s.TotalMoveCount,
			AbilityAvailable: s.AbilityAvailable,
			AbilityUsed:      s.AbilityUsed,
			MatchFinished:    s.MatchFinished,
			GameFinished:     s.GameFinished,
			Revealed:         s.RevealedString(),
			Definition:       s.Definition.Cells(),
			Commitment:       s.Commitment,
			Salt:             s.Salt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

// DecodeSession is the inverse of EncodeSession. Any malformed blob yields
// an error wrapping ErrInvalidSession.
func DecodeSession(blob []byte) (Session, error) {
	if len(blob) == 0 {
		return Session{}, ErrInvalidSession
	}
	var snap snapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		return Session{}, fmt.Errorf("%w: %w: %v", ErrInvalidSession, errCorrupt, err)
	}
	if snap.Version != snapshotVersion || snap.State == nil {
		return Session{}, fmt.Errorf("%w: %w: version %d", ErrInvalidSession, errCorrupt, snap.Version)
	}

	d := snap.State
	n := d.Rows * d.Columns
	if d.Rows <= 0 || d.Columns <= 0 || len(d.Revealed) != n || len(d.Definition) != n || d.MapCount < 1 {
		return Session{}, fmt.Errorf("%w: %w: bad dimensions", ErrInvalidSession, errCorrupt)
	}
	if err := d.checkProgress(snap.Retries); err != nil {
		return Session{}, fmt.Errorf("%w: %w: %v", ErrInvalidSession, errCorrupt, err)
	}

	s := &State{
		MatchID:          d.MatchID,
		MapIndex:         d.MapIndex,
		MapCount:         d.MapCount,
		MoveCount:        d.MoveCount,
		TotalMoveCount:   d.TotalMoveCount,
		AbilityAvailable: d.AbilityAvailable,
		AbilityUsed:      d.AbilityUsed,
		MatchFinished:    d.MatchFinished,
		GameFinished:     d.GameFinished,
		Revealed:         grid.New[CellMark](d.Rows, d.Columns),
		Definition:       grid.New[CellDefinition](d.Rows, d.Columns),
		Commitment:       d.Commitment,
		Salt:             d.Salt,
	}
	for i := 0; i < n; i++ {
		m := CellMark(d.Revealed[i])
		if !m.valid() {
			return Session{}, fmt.Errorf("%w: %w: mark %q at %d", ErrInvalidSession, errCorrupt, d.Revealed[i], i)
		}
		s.Revealed.SetAt(i, m)
	}
	s.Definition.ReplaceAll(d.Definition)

	return Session{State: s, RemainingRetries: snap.Retries}, nil
}

// checkProgress rejects counters and flags the orchestrator can never
// produce. MapIndex == MapCount is the frozen, exhausted match.
func (d *stateDTO) checkProgress(retries int) error {
	switch {
	case d.MapIndex < 0 || d.MapIndex > d.MapCount:
		return fmt.Errorf("map index %d of %d", d.MapIndex, d.MapCount)
	case d.MoveCount < 0 || d.TotalMoveCount < d.MoveCount:
		return fmt.Errorf("moves %d, total %d", d.MoveCount, d.TotalMoveCount)
	case retries < 0:
		return fmt.Errorf("retries %d", retries)
	case d.AbilityAvailable && d.AbilityUsed:
		return errors.New("ability both available and used")
	case d.GameFinished && !d.MatchFinished:
		return errors.New("game finished before its map")
	}
	return nil
}
