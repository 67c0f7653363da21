package engine

// DefaultWinTile is the classic target tile.
const DefaultWinTile = 2048

// DefaultSpawn4Prob is the probability of spawning a 4 instead of a 2.
const DefaultSpawn4Prob = 0.1

// RandomSource is the subset of *rand.Rand (math/rand/v2) the engine needs.
// Tests supply deterministic implementations.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// SpawnRandomTile places a 2 or a 4 on a uniformly chosen empty cell.
// Returns false without touching the grid when the board is full.
func SpawnRandomTile(g Grid, rng RandomSource, spawn4Prob float64) (Position, bool) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Position{}, false
	}

	cell := empty[rng.IntN(len(empty))]

	value := 2
	if rng.Float64() < spawn4Prob {
		value = 4
	}

	g[cell.Row][cell.Col] = value
	return cell, true
}

// HasWon returns true if any tile reached winTile.
func HasWon(g Grid, winTile int) bool {
	return g.MaxTile() >= winTile
}

// HasPossibleMerge returns true if any adjacent tiles can merge.
func HasPossibleMerge(g Grid) bool {
	size := g.Size()
	for r := range size {
		for c := range size {
			val := g[r][c]
			if val == 0 {
				continue
			}
			// Check right neighbor
			if c < size-1 && g[r][c+1] == val {
				return true
			}
			// Check bottom neighbor
			if r < size-1 && g[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(g Grid) bool {
	return g.Occupied() < g.Size()*g.Size() || HasPossibleMerge(g)
}
