// apps/go-server/internal/game/ability.go
//
// The three one-time abilities unlocked by sinking the capital ship.
//   - thor:    reveal up to 10 random unknown cells.
//   - ironman: point at one cell of the smallest ship still afloat (hint only).
//   - hulk:    destroy every cell of the ship under the target.

package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
)

// Ability names a special move.
type Ability string

const (
	Thor    Ability = "thor"
	Ironman Ability = "ironman"
	Hulk    Ability = "hulk"
)

// thorMaxHits bounds how many cells a Thor strike reveals.
const thorMaxHits = 10

// ParseAbility accepts an ability name in any letter case.
func ParseAbility(name string) (Ability, error) {
	a := Ability(strings.ToLower(strings.TrimSpace(name)))
	if !a.valid() {
		return "", fmt.Errorf("%w: unknown ability %q", ErrValidation, name)
	}
	return a, nil
}

func (a Ability) valid() bool { return a == Thor || a == Ironman || a == Hulk }

func resultAt(s *State, i int, hit bool) AbilityResult {
	p := s.Definition.PositionOf(i)
	return AbilityResult{Point: MapPoint{X: p.Col, Y: p.Row}, Hit: hit}
}

// thorStrike reveals up to thorMaxHits distinct unknown cells chosen
// uniformly without replacement.
func thorStrike(s *State, rng fleet.Rand) ([]AbilityResult, error) {
	var untouched []int
	for i, m := range s.Revealed.All() {
		if m == MarkUnknown {
			untouched = append(untouched, i)
		}
	}

	n := min(len(untouched), thorMaxHits)
	out := make([]AbilityResult, 0, n)
	for range n {
		j := rng.IntN(len(untouched))
		idx := untouched[j]
		untouched[j] = untouched[len(untouched)-1]
		untouched = untouched[:len(untouched)-1]

		mark, err := s.revealAt(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, resultAt(s, idx, mark == MarkShip))
	}
	return out, nil
}

// ironmanHint returns one random cell of the alive ship with the smallest
// weight. The board is not modified.
func ironmanHint(s *State, rng fleet.Rand) []AbilityResult {
	smallest := 0
	var cells []int
	for i, c := range s.Definition.All() {
		if !c.Alive() {
			continue
		}
		switch {
		case smallest == 0 || c.Weight < smallest:
			smallest = c.Weight
			cells = append(cells[:0], i)
		case c.Weight == smallest:
			cells = append(cells, i)
		}
	}
	if len(cells) == 0 {
		return []AbilityResult{}
	}
	return []AbilityResult{resultAt(s, cells[rng.IntN(len(cells))], false)}
}

// hulkSmash destroys the whole ship under p, including cells already hit.
// Water under p makes it a no-op.
func hulkSmash(s *State, p grid.Position) ([]AbilityResult, error) {
	target, err := s.Definition.Get(p)
	if err != nil {
		return nil, err
	}
	if target.Kind != CellShip {
		return []AbilityResult{}, nil
	}

	id := target.ShipID()
	var out []AbilityResult
	for i, c := range s.Definition.All() {
		if c.Kind != CellShip || c.ShipID() != id {
			continue
		}
		s.Definition.SetAt(i, CellDefinition{Kind: CellShip, Weight: -id})
		s.Revealed.SetAt(i, MarkShip)
		out = append(out, resultAt(s, i, true))
	}
	return out, nil
}
