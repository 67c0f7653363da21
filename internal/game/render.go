package game

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
)

// Controls is the key hint line shown under the board.
const Controls = "Arrows/WASD/drag: Move | C: Keep going | R: New game | Q: Quit"

// BoardSize returns the screen area a board of n×n cells occupies.
func BoardSize(n int) (w, h int) {
	return n*cellWidth + 1, n*cellHeight + 1
}

// MinScreenSize returns the smallest screen that fits the HUD and board.
func MinScreenSize(n int) (w, h int) {
	w, h = BoardSize(n)
	return max(w, 24), h + hudHeight + 3
}

// Render projects a view onto the screen. It never touches game state.
func Render(dst *core.Screen, v View) {
	dst.Clear()

	n := v.Grid.Size()
	minW, minH := MinScreenSize(n)
	if dst.Width() < minW || dst.Height() < minH {
		renderTooSmall(dst)
		return
	}

	boardW, boardH := BoardSize(n)
	board := core.NewRect(0, hudHeight+1, dst.Width(), boardH).Centered(boardW, boardH)

	renderHUD(dst, v, board)
	renderBoard(dst, v, board)
	renderOverlay(dst, v, board)

	dst.DrawTextCentered(board.Bottom()+1, Controls)
}

// renderTooSmall shows a "window too small" message.
func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score, best score and target.
func renderHUD(dst *core.Screen, v View, board core.Rect) {
	dst.DrawTextColored(board.X+(board.W-4)/2, 0, "2048", core.ColorOrange, true)

	dst.DrawText(board.X, 1, fmt.Sprintf("Score: %d", v.Score))

	best := fmt.Sprintf("Best: %d", v.Best)
	dst.DrawText(max(board.X, board.Right()-len(best)), 1, best)

	target := fmt.Sprintf("Join the tiles, get to %d!", v.WinTile)
	if v.Status == StatusWonContinuing {
		target = fmt.Sprintf("Max tile: %d", v.Grid.MaxTile())
	}
	dst.DrawTextCentered(2, target)
}

// renderBoard draws the grid lines and tiles.
func renderBoard(dst *core.Screen, v View, board core.Rect) {
	n := v.Grid.Size()

	for y := range n + 1 {
		for x := range n + 1 {
			px := board.X + x*cellWidth
			py := board.Y + y*cellHeight

			dst.SetCell(px, py, core.Cell{Rune: junction(x, y, n), Color: core.ColorGray})

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetCell(px+i, py, core.Cell{Rune: '─', Color: core.ColorGray})
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetCell(px, py+i, core.Cell{Rune: '│', Color: core.ColorGray})
				}
			}
		}
	}

	fresh := make(map[engine.Position]bool, len(v.NewTiles))
	for _, p := range v.NewTiles {
		fresh[p] = true
	}

	for row := range n {
		for col := range n {
			cellX := board.X + col*cellWidth + 1
			cellY := board.Y + row*cellHeight + 1

			val := v.Grid[row][col]
			if val == 0 {
				dst.SetCell(cellX+(cellWidth-1)/2, cellY, core.Cell{Rune: '·', Color: core.ColorGray})
				continue
			}

			text := strconv.Itoa(val)
			pad := max((cellWidth-1-len(text))/2, 0)
			isNew := fresh[engine.Position{Row: row, Col: col}]
			dst.DrawTextColored(cellX+pad, cellY, text, core.TileColor(val), isNew || val >= v.WinTile)

			if isNew {
				dst.SetCell(cellX, cellY, core.Cell{Rune: '+', Color: core.ColorGray})
			}
		}
	}
}

func junction(x, y, n int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	default:
		return '┼'
	}
}

// renderOverlay draws the win and game over messages.
func renderOverlay(dst *core.Screen, v View, board core.Rect) {
	if !v.Status.Terminal() {
		return
	}
	switch v.Status {
	case StatusWon:
		drawOverlay(dst, board, core.ColorBrightYellow, "You win!", "C: Keep going", "R: New game")
	case StatusOver:
		drawOverlay(dst, board, core.ColorBrightRed, "Game over!", fmt.Sprintf("Score: %d", v.Score), "R: Try again")
	}
}

// drawOverlay draws a centered text box over the board.
func drawOverlay(dst *core.Screen, board core.Rect, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := board.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	text := box.Inset(1)
	for i, line := range lines {
		dst.DrawTextColored(text.X+(text.W-len(line))/2, text.Y+i, line, color, i == 0)
	}
}
