// apps/go-server/internal/boards/boards.go
//
// Fixed board supply for repeatable matches.
//
// Responsibilities:
//   - Load predefined layouts from a file (BOARD_FILE) or fall back to the
//     boards embedded in the assets package.
//   - Validate every layout against the fleet rules before it is served.
//   - Hand layouts out in round-robin order (game.BoardSupplier).
//
// File format:
//   One board per block of lines, blocks separated by a blank line.
//   Each line is a row of digits: '0' water, '2'..'9' the weight of the
//   ship covering the cell. Lines starting with '#' are comments.

package boards

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/robalobadob/battleships/apps/go-server/assets"
	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
)

var ErrNoBoards = errors.New("boards: no layouts loaded")

// Fixed serves a fixed list of layouts. Safe for concurrent use.
type Fixed struct {
	rows, cols int
	layouts    [][]int
	next       atomic.Uint64
}

// New validates layouts and wraps them in a Fixed supplier.
func New(rows, cols int, layouts [][]int) (*Fixed, error) {
	if len(layouts) == 0 {
		return nil, ErrNoBoards
	}
	for i, l := range layouts {
		if err := fleet.Validate(l, rows, cols); err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
	}
	return &Fixed{rows: rows, cols: cols, layouts: layouts}, nil
}

// Load reads boards from path, or the embedded defaults when path is empty.
func Load(path string, rows, cols int) (*Fixed, error) {
	var (
		blocks [][]string
		err    error
	)
	if path == "" {
		blocks, err = assets.DefaultBoards()
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		blocks, err = assets.ReadBlocks(f)
	}
	if err != nil {
		return nil, err
	}

	layouts := make([][]int, 0, len(blocks))
	for i, b := range blocks {
		l, err := Parse(b, rows, cols)
		if err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
		layouts = append(layouts, l)
	}
	return New(rows, cols, layouts)
}

// Parse converts one block of digit rows into a flattened layout.
func Parse(lines []string, rows, cols int) ([]int, error) {
	if len(lines) != rows {
		return nil, fmt.Errorf("%w: %d rows, want %d", fleet.ErrInvalidLayout, len(lines), rows)
	}
	out := make([]int, 0, rows*cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", fleet.ErrInvalidLayout, r, len(line), cols)
		}
		for c := 0; c < len(line); c++ {
			ch := line[c]
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w: bad cell %q at (%d,%d)", fleet.ErrInvalidLayout, ch, r, c)
			}
			out = append(out, int(ch-'0'))
		}
	}
	return out, nil
}

// Len reports how many layouts are loaded.
func (f *Fixed) Len() int { return len(f.layouts) }

// Layout returns a copy of the next layout in rotation.
func (f *Fixed) Layout(rows, cols int) ([]int, error) {
	if rows != f.rows || cols != f.cols {
		return nil, fmt.Errorf("boards: loaded for %dx%d, asked for %dx%d", f.rows, f.cols, rows, cols)
	}
	i := (f.next.Add(1) - 1) % uint64(len(f.layouts))
	return append([]int(nil), f.layouts[i]...), nil
}
