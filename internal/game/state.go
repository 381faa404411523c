// apps/go-server/internal/game/state.go
//
// MatchState: the revealed grid, the hidden definition grid and the progress
// counters of one match. The orchestrator mutates it in place; the codec in
// snapshot.go turns it into an opaque blob and back.

package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
)

// State is the full state of one match.
type State struct {
	MatchID string

	MapIndex       int
	MapCount       int
	MoveCount      int
	TotalMoveCount int

	AbilityAvailable bool
	AbilityUsed      bool
	MatchFinished    bool
	GameFinished     bool

	Revealed   *grid.Grid[CellMark]
	Definition *grid.Grid[CellDefinition]

	// Commitment binds the layout of the current map; Salt opens it.
	Commitment string
	Salt       string
}

// Session is the persisted unit: a match plus the caller's retry budget.
type Session struct {
	State            *State
	RemainingRetries int
}

func newState(rows, cols, mapCount int) *State {
	s := &State{
		MapCount:   mapCount,
		Revealed:   grid.New[CellMark](rows, cols),
		Definition: grid.New[CellDefinition](rows, cols),
	}
	s.Revealed.Fill(MarkUnknown)
	return s
}

// Rows reports the board height.
func (s *State) Rows() int { return s.Definition.Rows() }

// Columns reports the board width.
func (s *State) Columns() int { return s.Definition.Cols() }

// board is a drawn layout together with its commitment. Salt and
// commitment are empty when the layout could not be installed.
type board struct {
	layout     []int
	salt       string
	commitment string
}

// install hides the whole board and installs b. A layout of the wrong size
// is rejected by grid.ReplaceAll and leaves every cell undefined, so any
// shot on that map is an invariant violation.
func (s *State) install(b board) {
	cells := make([]CellDefinition, len(b.layout))
	for i, w := range b.layout {
		cells[i] = definitionOf(w)
	}
	if !s.Definition.ReplaceAll(cells) {
		s.Definition.Fill(CellDefinition{})
	}
	s.Revealed.Fill(MarkUnknown)
	s.Salt, s.Commitment = b.salt, b.commitment
}

// RevealedString flattens the revealed grid into its marker string.
func (s *State) RevealedString() string {
	var b strings.Builder
	b.Grow(s.Revealed.Len())
	for _, m := range s.Revealed.All() {
		b.WriteByte(byte(m))
	}
	return b.String()
}

// revealAt resolves a shot at a flat index: a ship cell is marked destroyed
// (weight -|w|) and shown as ship, a water cell is shown as water.
func (s *State) revealAt(i int) (CellMark, error) {
	def := s.Definition.At(i)
	switch def.Kind {
	case CellShip:
		def.Weight = -def.ShipID()
		s.Definition.SetAt(i, def)
		s.Revealed.SetAt(i, MarkShip)
		return MarkShip, nil
	case CellWater:
		s.Revealed.SetAt(i, MarkWater)
		return MarkWater, nil
	default:
		return 0, fmt.Errorf("%w: cell %s has kind %s", ErrInvariant, s.Definition.PositionOf(i), def.Kind)
	}
}

// evaluate applies the post-shot rules: unlock the ability once the capital
// ship is gone (unless already used on this map) and finish the map once no
// ship cell is alive.
func (s *State) evaluate() {
	capitalAlive := s.Definition.Any(func(c CellDefinition) bool {
		return c.Alive() && c.Weight == fleet.CapitalWeight
	})
	if !capitalAlive && !s.AbilityUsed {
		s.AbilityAvailable = true
	}
	if !s.Definition.Any(CellDefinition.Alive) {
		s.MatchFinished = true
		s.GameFinished = s.MapIndex == s.MapCount-1
	}
}

// Notification is the full public state pushed after every mutating call.
type Notification struct {
	MatchID          string           `json:"matchId"`
	Rows             int              `json:"rows"`
	Columns          int              `json:"columns"`
	MapID            int              `json:"mapId"`
	MapCount         int              `json:"mapCount"`
	MoveCount        int              `json:"moveCount"`
	TotalMoveCount   int              `json:"totalMoveCount"`
	AbilityAvailable bool             `json:"abilityAvailable"`
	AbilityUsed      bool             `json:"abilityUsed"`
	MatchFinished    bool             `json:"matchFinished"`
	GameFinished     bool             `json:"gameFinished"`
	RevealedGrid     string           `json:"revealedGrid"`
	DefinitionGrid   []CellDefinition `json:"definitionGrid"`
	Commitment       string           `json:"commitment,omitempty"`
	Salt             string           `json:"salt,omitempty"`
}

// Notification projects the state into its change-notification payload.
func (s *State) Notification() Notification {
	return Notification{
		MatchID:          s.MatchID,
		Rows:             s.Rows(),
		Columns:          s.Columns(),
		MapID:            s.MapIndex,
		MapCount:         s.MapCount,
		MoveCount:        s.MoveCount,
		TotalMoveCount:   s.TotalMoveCount,
		AbilityAvailable: s.AbilityAvailable,
		AbilityUsed:      s.AbilityUsed,
		MatchFinished:    s.MatchFinished,
		GameFinished:     s.GameFinished,
		RevealedGrid:     s.RevealedString(),
		DefinitionGrid:   s.Definition.Cells(),
		Commitment:       s.Commitment,
		Salt:             s.Salt,
	}
}
