package engine

import (
	"fmt"
	"slices"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four directions in a stable order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the direction token used by the input and wire layers.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction token back to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("engine: unknown direction %q", s)
}

// MergeLine slides one line towards index 0 and merges equal neighbours.
// A tile merges at most once per call. The result has the same length as the input.
func MergeLine(line []int) (result []int, changed bool, scoreGained int) {
	compacted := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compacted = append(compacted, v)
		}
	}

	result = make([]int, 0, len(line))
	for i := 0; i < len(compacted); i++ {
		if i+1 < len(compacted) && compacted[i] == compacted[i+1] {
			merged := compacted[i] * 2
			result = append(result, merged)
			scoreGained += merged
			i++ // right tile is consumed
			continue
		}
		result = append(result, compacted[i])
	}

	for len(result) < len(line) {
		result = append(result, 0)
	}

	for i := range line {
		if line[i] != result[i] {
			changed = true
			break
		}
	}
	return result, changed, scoreGained
}

// line describes one row or column in the order tiles travel along it:
// index 0 is the edge tiles slide towards.
type line struct {
	vertical bool // column instead of row
	reversed bool // traverse from the far end
	index    int
}

func lineFor(dir Direction, index int) line {
	switch dir {
	case DirRight:
		return line{reversed: true, index: index}
	case DirUp:
		return line{vertical: true, index: index}
	case DirDown:
		return line{vertical: true, reversed: true, index: index}
	default:
		return line{index: index}
	}
}

// position maps the i-th step along the line to a grid cell.
func (l line) position(i, size int) Position {
	if l.reversed {
		i = size - 1 - i
	}
	if l.vertical {
		return Position{Row: i, Col: l.index}
	}
	return Position{Row: l.index, Col: i}
}

func (l line) read(g Grid) []int {
	values := make([]int, g.Size())
	for i := range values {
		p := l.position(i, g.Size())
		values[i] = g[p.Row][p.Col]
	}
	return values
}

func (l line) write(g Grid, values []int) {
	for i, v := range values {
		p := l.position(i, g.Size())
		g[p.Row][p.Col] = v
	}
}

// ApplyMove slides the whole board in the given direction.
// The input grid is never mutated. When nothing moves the input is returned as-is.
func ApplyMove(g Grid, dir Direction) (Grid, bool, int) {
	if !slices.Contains(Directions, dir) {
		return g, false, 0
	}

	next := g.Clone()
	total := 0
	for i := range g.Size() {
		l := lineFor(dir, i)
		merged, _, score := MergeLine(l.read(g))
		l.write(next, merged)
		total += score
	}

	if next.Equal(g) {
		return g, false, 0
	}
	return next, true, total
}
