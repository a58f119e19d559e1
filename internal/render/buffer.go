package render

import (
	"image"
	"image/color"
)

// Buffer is one frame of terminal cells being composed.
type Buffer struct {
	width, height int
	cells         [][]Cell
}

// NewBuffer creates a frame filled with blank cells.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  max(width, 0),
		height: max(height, 0),
		cells:  makeCells(width, height, Cell{Ch: ' '}),
	}
}

// Width returns the frame width in columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the frame height in rows.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the frame area.
func (b *Buffer) Bounds() Rect { return Rect{W: b.width, H: b.height} }

// At returns the cell at column x, row y. Out-of-range positions yield a zero Cell.
func (b *Buffer) At(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{}
	}
	return b.cells[y][x]
}

// Set writes a cell, ignoring positions outside the frame.
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = c
}

// Fill overwrites every cell.
func (b *Buffer) Fill(c Cell) {
	b.FillRect(b.Bounds(), c)
}

// FillRect overwrites every cell inside r.
func (b *Buffer) FillRect(r Rect, c Cell) {
	r = r.Intersect(b.Bounds())
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			b.cells[y][x] = c
		}
	}
}

// WriteText writes text on row y from column x, clipped to [x, maxCol).
// Returns the next column position.
func (b *Buffer) WriteText(x, y, maxCol int, text string, style Cell) int {
	for _, r := range text {
		if x >= maxCol || x >= b.width {
			break
		}
		c := style
		c.Ch = r
		b.Set(x, y, c)
		x++
	}
	return x
}

// StampImage composites an image at column x, row y using half blocks: every
// cell shows two vertically stacked pixels, so the image covers
// width x ceil(height/2) cells. An odd last row uses bg for the lower half.
func (b *Buffer) StampImage(img image.Image, x, y int, bg color.RGBA) {
	bounds := img.Bounds()
	rows := (bounds.Dy() + 1) / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < bounds.Dx(); col++ {
			px := bounds.Min.X + col
			py := bounds.Min.Y + row*2
			top := toRGBA(img.At(px, py))
			bottom := bg
			if py+1 < bounds.Max.Y {
				bottom = toRGBA(img.At(px, py+1))
			}
			b.Set(x+col, y+row, HalfBlock(top, bottom))
		}
	}
}

// HalfBlock returns a cell showing top over bottom.
func HalfBlock(top, bottom color.RGBA) Cell {
	return Cell{
		Ch:  '▀',
		FgR: top.R, FgG: top.G, FgB: top.B,
		BgR: bottom.R, BgG: bottom.G, BgB: bottom.B,
	}
}

// Solid returns a blank cell with background c.
func Solid(c color.RGBA) Cell {
	return Cell{Ch: ' ', BgR: c.R, BgG: c.G, BgB: c.B}
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
