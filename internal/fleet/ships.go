package fleet

// CapitalWeight identifies the plus-shaped capital ship. Sinking it unlocks
// the one-time ability.
const CapitalWeight = 9

// Ship is one member of the fixed fleet. Shape cells hold either 0 or the
// ship's weight; the weight doubles as the ship's identity on the board.
type Ship struct {
	Name   string
	Weight int
	Shape  [][]int
}

// Cells counts the occupied cells of the shape.
func (s Ship) Cells() int {
	n := 0
	for _, row := range s.Shape {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Ships is the fixed six-ship fleet in placement order (largest footprint first).
var Ships = []Ship{
	{Name: "helicarrier", Weight: CapitalWeight, Shape: [][]int{
		{0, 9, 0},
		{9, 9, 9},
		{0, 9, 0},
	}},
	{Name: "carrier", Weight: 6, Shape: [][]int{{6, 6, 6, 6, 6, 6}}},
	{Name: "battleship", Weight: 5, Shape: [][]int{{5, 5, 5, 5, 5}}},
	{Name: "destroyer", Weight: 4, Shape: [][]int{{4, 4, 4, 4}}},
	{Name: "submarine", Weight: 3, Shape: [][]int{{3, 3, 3}}},
	{Name: "boat", Weight: 2, Shape: [][]int{{2, 2}}},
}

// CellCounts maps each fleet weight to its number of cells.
func CellCounts() map[int]int {
	out := make(map[int]int, len(Ships))
	for _, s := range Ships {
		out[s.Weight] = s.Cells()
	}
	return out
}

// transpose returns the shape rotated by 90° (mirrored across the diagonal,
// which is equivalent for every shape in the fleet).
func transpose(shape [][]int) [][]int {
	rows, cols := len(shape), len(shape[0])
	out := make([][]int, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]int, rows)
		for r := 0; r < rows; r++ {
			out[c][r] = shape[r][c]
		}
	}
	return out
}
