// Package engine implements the grid rules of the 2048 sliding puzzle:
// merging lines, applying directional moves, spawning tiles and detecting
// terminal positions. It has no I/O and no global state.
package engine

import (
	"errors"
	"fmt"
)

// DefaultSize is the classic board dimension.
const DefaultSize = 4

// ErrInvalidGrid is returned by Validate for grids that break the board invariants.
var ErrInvalidGrid = errors.New("engine: invalid grid")

// Grid is an N×N matrix of tile values indexed as grid[row][col].
// Zero marks an empty cell.
type Grid [][]int

// Position addresses a single cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewGrid returns an empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for r := range g {
		g[r] = make([]int, size)
	}
	return g
}

// Size returns the board dimension.
func (g Grid) Size() int {
	return len(g)
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for r := range g {
		c[r] = append([]int(nil), g[r]...)
	}
	return c
}

// Equal reports whether both grids have the same shape and values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func (g Grid) EmptyCells() []Position {
	var cells []Position
	for r := range g {
		for c := range g[r] {
			if g[r][c] == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Occupied returns the number of non-empty cells.
func (g Grid) Occupied() int {
	n := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the maximum tile value on the board.
func (g Grid) MaxTile() int {
	maxVal := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] > maxVal {
				maxVal = g[r][c]
			}
		}
	}
	return maxVal
}

// Validate checks that the grid is square and every tile is zero or a power of two >= 2.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("%w: empty board", ErrInvalidGrid)
	}
	for r := range g {
		if len(g[r]) != len(g) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(g[r]), len(g))
		}
		for c, v := range g[r] {
			if v != 0 && !IsTileValue(v) {
				return fmt.Errorf("%w: value %d at (%d,%d)", ErrInvalidGrid, v, r, c)
			}
		}
	}
	return nil
}

// IsTileValue reports whether v is a legal non-empty tile: a power of two >= 2.
func IsTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
