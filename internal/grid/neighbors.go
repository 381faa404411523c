package grid

import "iter"

// Pattern selects which neighbours Neighbors enumerates.
type Pattern int

const (
	AllAround  Pattern = iota // 8 surrounding cells
	Cross                     // up, down, left, right
	Vertical                  // up, down
	Horizontal                // left, right
)

var offsets = map[Pattern][][2]int{
	AllAround:  {{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}},
	Cross:      {{-1, 0}, {1, 0}, {0, -1}, {0, 1}},
	Vertical:   {{-1, 0}, {1, 0}},
	Horizontal: {{0, -1}, {0, 1}},
}

// Neighbors lazily yields the on-board neighbours of p for the pattern.
// Candidates that fall outside the board are skipped. An unknown pattern
// yields nothing.
func (g *Grid[T]) Neighbors(p Position, pattern Pattern) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, d := range offsets[pattern] {
			n := Position{Row: p.Row + d[0], Col: p.Col + d[1]}
			if !g.Contains(n) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
