// apps/go-server/internal/fleet/generator.go
//
// Randomized fleet placement.
// Responsibilities:
//   - Place the six ships of Ships, largest first, on an empty board.
//   - Pick an orientation (p=0.5 unrotated / transposed) and a uniform anchor
//     such that the shape's bounding box fits.
//   - Accept a placement only if every occupied cell is on the board, empty,
//     and has no occupied 8-neighbour; otherwise draw again.
//
// Notes:
//   - MaxAttempts == 0 retries forever. On a 12×12 board the fleet always
//     fits, so the loop terminates with probability 1; larger fleets or
//     smaller boards should set a cap.
package fleet

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrPlacement is returned when a ship cannot be placed.
var ErrPlacement = errors.New("fleet placement failed")

// Rand is the subset of *rand.Rand the generator needs.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 source, which is safe
// for concurrent use.
var DefaultRand Rand = globalRand{}

// Generator produces hidden ship layouts.
type Generator struct {
	rng Rand

	// MaxAttempts caps placement draws per ship. Zero means unbounded.
	MaxAttempts int
}

// NewGenerator returns a generator drawing from rng (DefaultRand if nil).
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = DefaultRand
	}
	return &Generator{rng: rng}
}

// Generate returns a rows×cols matrix: 0 for water, otherwise the weight of
// the ship occupying the cell.
func (g *Generator) Generate(rows, cols int) ([][]int, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: board %dx%d", ErrPlacement, rows, cols)
	}
	board := make([][]int, rows)
	for r := range board {
		board[r] = make([]int, cols)
	}
	for _, s := range Ships {
		if err := g.place(board, s); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// Layout is Generate flattened in row-major order.
func (g *Generator) Layout(rows, cols int) ([]int, error) {
	board, err := g.Generate(rows, cols)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, rows*cols)
	for _, row := range board {
		out = append(out, row...)
	}
	return out, nil
}

func (g *Generator) place(board [][]int, s Ship) error {
	rows, cols := len(board), len(board[0])
	shapes := [2][][]int{s.Shape, transpose(s.Shape)}
	if !fits(shapes[0], rows, cols) && !fits(shapes[1], rows, cols) {
		return fmt.Errorf("%w: %s does not fit a %dx%d board", ErrPlacement, s.Name, rows, cols)
	}

	for attempt := 0; g.MaxAttempts == 0 || attempt < g.MaxAttempts; attempt++ {
		shape := shapes[0]
		if g.rng.IntN(2) == 0 {
			shape = shapes[1]
		}
		if !fits(shape, rows, cols) {
			continue
		}
		row := g.rng.IntN(rows - len(shape) + 1)
		col := g.rng.IntN(cols - len(shape[0]) + 1)
		if !canPlace(board, shape, row, col) {
			continue
		}
		for r, line := range shape {
			for c, v := range line {
				if v != 0 {
					board[row+r][col+c] = v
				}
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrPlacement, s.Name, g.MaxAttempts)
}

func fits(shape [][]int, rows, cols int) bool {
	return len(shape) <= rows && len(shape[0]) <= cols
}

func canPlace(board [][]int, shape [][]int, startRow, startCol int) bool {
	rows, cols := len(board), len(board[0])
	for r, line := range shape {
		for c, v := range line {
			if v == 0 {
				continue
			}
			br, bc := startRow+r, startCol+c
			if br < 0 || br >= rows || bc < 0 || bc >= cols {
				return false
			}
			if board[br][bc] != 0 {
				return false
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nr, nc := br+dy, bc+dx
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					if board[nr][nc] != 0 {
						return false
					}
				}
			}
		}
	}
	return true
}
