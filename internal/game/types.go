// apps/go-server/internal/game/types.go
//
// Core type definitions for the battleships engine.
// Defines:
//   - CellMark: what the revealed grid shows the player (unknown/water/ship).
//   - CellKind + CellDefinition: the hidden ground truth of a cell.
//   - Response payloads returned by the orchestrator.

package game

import (
	"fmt"
	"math"
)

// Board dimensions. Every match is played on a fixed 12×12 board.
const (
	Rows    = 12
	Columns = 12
)

// DefaultRetries is the retry budget of a brand-new session when the
// configuration does not set one.
const DefaultRetries = math.MaxInt32

// CellMark is a single character of the revealed grid.
type CellMark byte

const (
	MarkUnknown CellMark = '*'
	MarkWater   CellMark = '.'
	MarkShip    CellMark = 'X'
)

func (m CellMark) String() string { return string(rune(m)) }

// valid reports whether m is one of the three known marks.
func (m CellMark) valid() bool {
	return m == MarkUnknown || m == MarkWater || m == MarkShip
}

// CellKind is the hidden content of a cell. The zero value never appears on
// a well-formed board; meeting it during resolution is an invariant violation.
type CellKind uint8

const (
	CellUndefined CellKind = iota
	CellWater
	CellShip
)

func (k CellKind) String() string {
	switch k {
	case CellWater:
		return "water"
	case CellShip:
		return "ship"
	default:
		return "undefined"
	}
}

// MarshalText renders the kind as "water" / "ship" / "undefined".
func (k CellKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses the output of MarshalText.
func (k *CellKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "water":
		*k = CellWater
	case "ship":
		*k = CellShip
	case "undefined":
		*k = CellUndefined
	default:
		return fmt.Errorf("unknown cell kind %q", b)
	}
	return nil
}

// CellDefinition is one cell of the hidden board.
// Weight: 0 water; w>0 alive cell of ship w; -w destroyed cell of ship w.
type CellDefinition struct {
	Kind   CellKind `json:"state" msgpack:"k"`
	Weight int      `json:"weight" msgpack:"w"`
}

// Alive reports whether the cell belongs to a ship and has not been hit.
func (c CellDefinition) Alive() bool { return c.Kind == CellShip && c.Weight > 0 }

// ShipID returns |Weight|, the identity of the ship the cell belongs to.
func (c CellDefinition) ShipID() int {
	if c.Weight < 0 {
		return -c.Weight
	}
	return c.Weight
}

// definitionOf converts a layout weight into a cell definition.
func definitionOf(weight int) CellDefinition {
	if weight == 0 {
		return CellDefinition{Kind: CellWater}
	}
	return CellDefinition{Kind: CellShip, Weight: weight}
}

// ---------------------------------------------------------------------------
// responses

// FireResponse is returned by Fire and FireStatus.
type FireResponse struct {
	// Grid is the flattened revealed board, one CellMark per cell.
	Grid string `json:"grid"`
	// Cell is "." or "X" for an accepted shot, "" otherwise.
	Cell string `json:"cell"`
	// Result is false when the shot was rejected (revealed or off-board cell).
	Result           bool `json:"result"`
	AbilityAvailable bool `json:"abilityAvailable"`
	MapID            int  `json:"mapId"`
	MapCount         int  `json:"mapCount"`
	MoveCount        int  `json:"moveCount"`
	// Finished is true once the last map of the match has been cleared.
	Finished bool `json:"finished"`
	// Commitment of the board currently being played.
	Commitment string `json:"commitment,omitempty"`
}

// MapPoint is a board coordinate in x (column) / y (row) form.
type MapPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AbilityResult reports one cell touched by an ability.
type AbilityResult struct {
	Point MapPoint `json:"point"`
	Hit   bool     `json:"hit"`
}

// AbilityFireResponse is returned by FireWithAbility.
type AbilityFireResponse struct {
	FireResponse
	AbilityResult []AbilityResult `json:"abilityResult"`
}

// ResetResponse reports the retry budget left after a reset.
type ResetResponse struct {
	RemainingRetries int `json:"remainingRetries"`
}

// StatusResponse is the read-only progress projection.
type StatusResponse struct {
	MapID          int `json:"mapId"`
	MapCount       int `json:"mapCount"`
	MoveCount      int `json:"moveCount"`
	TotalMoveCount int `json:"totalMoveCount"`
}
