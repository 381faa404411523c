// apps/go-server/internal/grid/grid.go
//
// Generic fixed-size board container.
// Responsibilities:
//   - Row-major storage of Rows×Cols cells of any type.
//   - Bounds-checked access by Position, unchecked access by flat index.
//   - Position <-> index mapping (total and bijective on the board).
//   - Neighbour enumeration for the four patterns used by the engine.
//
// Notes:
//   - ReplaceAll silently ignores input of the wrong length and reports it
//     through its bool result. Callers that need strictness must check it.
package grid

import (
	"errors"
	"fmt"
	"iter"
)

// ErrOutOfBounds is returned by Get/Set for positions outside the board.
var ErrOutOfBounds = errors.New("position out of bounds")

// Position addresses a cell. Both coordinates are 0-indexed.
type Position struct {
	Row int `json:"row" msgpack:"r"`
	Col int `json:"col" msgpack:"c"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Grid is a fixed-size 2-D container. The zero value is an empty 0×0 grid.
type Grid[T any] struct {
	rows, cols int
	cells      []T
}

// New allocates a rows×cols grid with every cell set to T's zero value.
func New[T any](rows, cols int) *Grid[T] {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid[T]{rows: rows, cols: cols, cells: make([]T, rows*cols)}
}

// Rows reports the number of rows.
func (g *Grid[T]) Rows() int { return g.rows }

// Cols reports the number of columns.
func (g *Grid[T]) Cols() int { return g.cols }

// Len reports Rows*Cols.
func (g *Grid[T]) Len() int { return len(g.cells) }

// Contains reports whether p lies on the board.
func (g *Grid[T]) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Get returns the cell at p.
func (g *Grid[T]) Get(p Position) (T, error) {
	if !g.Contains(p) {
		var zero T
		return zero, fmt.Errorf("get %s: %w", p, ErrOutOfBounds)
	}
	return g.cells[g.IndexOf(p)], nil
}

// Set overwrites the cell at p.
func (g *Grid[T]) Set(p Position, v T) error {
	if !g.Contains(p) {
		return fmt.Errorf("set %s: %w", p, ErrOutOfBounds)
	}
	g.cells[g.IndexOf(p)] = v
	return nil
}

// IndexOf maps a position to its row-major index. It does not check bounds.
func (g *Grid[T]) IndexOf(p Position) int { return p.Row*g.cols + p.Col }

// PositionOf is the inverse of IndexOf.
func (g *Grid[T]) PositionOf(index int) Position {
	if g.cols == 0 {
		return Position{}
	}
	return Position{Row: index / g.cols, Col: index % g.cols}
}

// At returns the cell at a flat index. It panics on an invalid index,
// like a slice access.
func (g *Grid[T]) At(index int) T { return g.cells[index] }

// SetAt overwrites the cell at a flat index.
func (g *Grid[T]) SetAt(index int, v T) { g.cells[index] = v }

// Cells returns a copy of the backing storage in row-major order.
func (g *Grid[T]) Cells() []T {
	out := make([]T, len(g.cells))
	copy(out, g.cells)
	return out
}

// ReplaceAll overwrites every cell with data. When len(data) differs from
// Rows*Cols nothing is changed and false is returned.
func (g *Grid[T]) ReplaceAll(data []T) bool {
	if len(data) != len(g.cells) {
		return false
	}
	copy(g.cells, data)
	return true
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Any reports whether at least one cell satisfies pred.
func (g *Grid[T]) Any(pred func(T) bool) bool {
	for _, c := range g.cells {
		if pred(c) {
			return true
		}
	}
	return false
}

// All yields every (index, cell) pair in row-major order.
func (g *Grid[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, c := range g.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}
