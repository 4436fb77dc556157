package model

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/rules"
)

// Grid represents the game board. A Grid never changes size, and
// NextGeneration always returns a new Grid instead of updating the receiver.
type Grid struct {
	height int
	width  int
	cells  [][]bool
}

// NewGrid creates a new all-dead grid with the specified dimensions.
// Non-positive dimensions are clamped to 1.
func NewGrid(height, width int) *Grid {
	height, width = max(1, height), max(1, width)
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Grid{
		height: height,
		width:  width,
		cells:  cells,
	}
}

// NewGridFromRows builds a grid from a copy of rows. Rows must be non-empty
// and of equal length.
func NewGridFromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("[NewGridFromRows] grid must have at least one row and one column")
	}
	g := NewGrid(len(rows), len(rows[0]))
	for row, cells := range rows {
		if len(cells) != g.width {
			return nil, errors.Errorf("[NewGridFromRows] row %d has %d cells, expected %d", row, len(cells), g.width)
		}
		copy(g.cells[row], cells)
	}
	return g, nil
}

// GetHeight returns the number of rows
func (g *Grid) GetHeight() int {
	return g.height
}

// GetWidth returns the number of columns
func (g *Grid) GetWidth() int {
	return g.width
}

// Set sets a cell to alive (true) or dead (false). Out of range coordinates are ignored.
func (g *Grid) Set(row, col int, alive bool) {
	if g.inBounds(row, col) {
		g.cells[row][col] = alive
	}
}

// Get returns the state of a cell; out of range coordinates read as dead.
func (g *Grid) Get(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return g.cells[row][col]
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Rows returns a copy of the cell matrix.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for row := range g.cells {
		rows[row] = append([]bool(nil), g.cells[row]...)
	}
	return rows
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{
		height: g.height,
		width:  g.width,
		cells:  g.Rows(),
	}
}

// Equal reports whether both grids have the same shape and cell states.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.height != other.height || g.width != other.width {
		return false
	}
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col] != other.cells[row][col] {
				return false
			}
		}
	}
	return true
}

// CountNeighbors counts the living cells in the Moore neighborhood of (row, col).
//
// With wrap, offsets are taken modulo the grid dimensions, so every cell has
// 8 neighbor positions; on grids narrower than 3 cells the same position may
// be counted more than once. An offset that wraps back onto the cell itself
// is never counted. Without wrap, positions outside the grid are skipped.
func (g *Grid) CountNeighbors(row, col int, wrap bool) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if wrap {
				r, c = g.wrap(r, c)
				if r == row && c == col {
					continue
				}
			} else if !g.inBounds(r, c) {
				continue
			}
			if g.cells[r][c] {
				count++
			}
		}
	}
	return count
}

// wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) wrap(row, col int) (int, int) {
	row = (row%g.height + g.height) % g.height
	col = (col%g.width + g.width) % g.width
	return row, col
}

// NextGeneration calculates the next generation into a freshly allocated grid.
// The receiver is left untouched.
func (g *Grid) NextGeneration(wrap bool) *Grid {
	next := NewGrid(g.height, g.width)
	for row := range g.height {
		for col := range g.width {
			next.cells[row][col] = rules.ApplyConwayRules(g.CountNeighbors(row, col, wrap), g.cells[row][col])
		}
	}
	return next
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for row := range g.height {
		for col := range g.width {
			if g.cells[row][col] {
				count++
			}
		}
	}
	return
}

// GetGridHash returns an MD5 hash of the grid shape and state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.height, g.width)
	for row := range g.height {
		for col := range g.width {
			if g.cells[row][col] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
