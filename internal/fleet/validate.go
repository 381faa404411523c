package fleet

import (
	"errors"
	"fmt"

	"github.com/robalobadob/battleships/apps/go-server/internal/grid"
)

// ErrInvalidLayout wraps every Validate failure.
var ErrInvalidLayout = errors.New("invalid fleet layout")

// Validate checks a flattened rows×cols layout against the fleet rules:
// exactly the weights of Ships with their cell counts, and no two distinct
// ships touching, diagonals included.
func Validate(layout []int, rows, cols int) error {
	if len(layout) != rows*cols {
		return fmt.Errorf("%w: %d cells for a %dx%d board", ErrInvalidLayout, len(layout), rows, cols)
	}
	want := CellCounts()
	got := make(map[int]int, len(want))
	for i, w := range layout {
		if w == 0 {
			continue
		}
		if _, ok := want[w]; !ok {
			return fmt.Errorf("%w: unknown weight %d at index %d", ErrInvalidLayout, w, i)
		}
		got[w]++
	}
	for w, n := range want {
		if got[w] != n {
			return fmt.Errorf("%w: weight %d has %d cells, want %d", ErrInvalidLayout, w, got[w], n)
		}
	}

	g := grid.New[int](rows, cols)
	g.ReplaceAll(layout)
	for i, w := range g.All() {
		if w == 0 {
			continue
		}
		for n := range g.Neighbors(g.PositionOf(i), grid.AllAround) {
			if other := g.At(g.IndexOf(n)); other != 0 && other != w {
				return fmt.Errorf("%w: ships %d and %d touch at %s", ErrInvalidLayout, w, other, n)
			}
		}
	}
	return nil
}
