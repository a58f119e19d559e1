package render

import (
	"strings"
)

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch            rune
	FgR, FgG, FgB uint8
	BgR, BgG, BgB uint8
	Bold          bool
}

var sentinel = Cell{Ch: '\x00', FgR: 255, BgB: 255, Bold: true}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size and forces a full repaint.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = makeCells(width, height, sentinel)
	e.firstFrame = true
}

// Invalidate forces the next frame to repaint every cell.
func (e *Engine) Invalidate() {
	e.firstFrame = true
}

// Render produces the ANSI output that turns the previous frame into next.
// Only changed cells are emitted, except on the first frame after a resize.
func (e *Engine) Render(next *Buffer) string {
	if next.Width() != e.width || next.Height() != e.height {
		e.Resize(next.Width(), next.Height())
	}

	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := next.cells[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
			e.current[y][x] = nc
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.firstFrame = false
	return sb.String()
}

func makeCells(width, height int, fill Cell) [][]Cell {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	buf := make([][]Cell, height)
	for y := 0; y < height; y++ {
		buf[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}
