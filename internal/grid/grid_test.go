package grid

import (
	"errors"
	"slices"
	"testing"
)

func TestGetSetBounds(t *testing.T) {
	g := New[int](3, 4)

	if err := g.Set(Position{Row: 2, Col: 3}, 7); err != nil {
		t.Fatalf("set in bounds: %v", err)
	}
	v, err := g.Get(Position{Row: 2, Col: 3})
	if err != nil || v != 7 {
		t.Fatalf("get = %d, %v; want 7, nil", v, err)
	}

	for _, p := range []Position{{-1, 0}, {0, -1}, {3, 0}, {0, 4}} {
		if _, err := g.Get(p); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%s) err = %v; want ErrOutOfBounds", p, err)
		}
		if err := g.Set(p, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%s) err = %v; want ErrOutOfBounds", p, err)
		}
	}
}

func TestIndexPositionBijection(t *testing.T) {
	g := New[byte](12, 12)
	seen := make(map[int]bool)
	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			p := Position{Row: r, Col: c}
			i := g.IndexOf(p)
			if i != r*12+c {
				t.Fatalf("IndexOf(%s) = %d", p, i)
			}
			if back := g.PositionOf(i); back != p {
				t.Fatalf("PositionOf(%d) = %s; want %s", i, back, p)
			}
			seen[i] = true
		}
	}
	if len(seen) != g.Len() {
		t.Fatalf("indices covered %d of %d", len(seen), g.Len())
	}
}

func TestReplaceAllLengthMismatchIsNoop(t *testing.T) {
	g := New[int](2, 2)
	g.Fill(5)

	if g.ReplaceAll([]int{1, 2, 3}) {
		t.Fatal("ReplaceAll with short data reported success")
	}
	if got := g.Cells(); !slices.Equal(got, []int{5, 5, 5, 5}) {
		t.Fatalf("cells changed on mismatch: %v", got)
	}

	if !g.ReplaceAll([]int{1, 2, 3, 4}) {
		t.Fatal("ReplaceAll with exact data failed")
	}
	if got := g.Cells(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("cells = %v", got)
	}
}

func TestCellsIsACopy(t *testing.T) {
	g := New[int](1, 2)
	c := g.Cells()
	c[0] = 9
	if g.At(0) != 0 {
		t.Fatal("mutating Cells() result changed the grid")
	}
}

func TestNeighbors(t *testing.T) {
	g := New[int](12, 12)

	cases := []struct {
		name    string
		pos     Position
		pattern Pattern
		want    int
	}{
		{"all around centre", Position{5, 5}, AllAround, 8},
		{"all around corner", Position{0, 0}, AllAround, 3},
		{"all around edge", Position{0, 5}, AllAround, 5},
		{"cross centre", Position{5, 5}, Cross, 4},
		{"cross corner", Position{11, 11}, Cross, 2},
		{"vertical top", Position{0, 3}, Vertical, 1},
		{"horizontal centre", Position{4, 4}, Horizontal, 2},
		{"horizontal right edge", Position{4, 11}, Horizontal, 1},
		{"unknown pattern", Position{4, 4}, Pattern(42), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(g.Neighbors(tc.pos, tc.pattern))
			if len(got) != tc.want {
				t.Fatalf("got %d neighbours %v; want %d", len(got), got, tc.want)
			}
			for _, p := range got {
				if !g.Contains(p) {
					t.Fatalf("neighbour %s is off the board", p)
				}
				if p == tc.pos {
					t.Fatalf("position yielded as its own neighbour")
				}
			}
		})
	}
}

func TestNeighborsStopsEarly(t *testing.T) {
	g := New[int](3, 3)
	n := 0
	for range g.Neighbors(Position{1, 1}, AllAround) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d times", n)
	}
}
