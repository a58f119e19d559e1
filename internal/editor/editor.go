package editor

import (
	"image/color"
	"math"

	"pixel-art-map/internal/sprites"
)

// Tool is the active drawing tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// Editor is a 16x16 pixel drawing surface bound to a sprite store.
//
// Pointer coordinates are continuous positions inside the rendered surface,
// whose size (w, h) is passed with every event since it need not match the
// 16x16 backing bitmap.
type Editor struct {
	store *sprites.Store

	pixels   sprites.Bitmap
	tool     Tool
	selected int
	drawing  bool
	dirty    bool
}

// New creates an editor with a white bitmap, the brush tool and the first
// palette colour. It panics with sprites.ErrNoStore if store is nil.
func New(store *sprites.Store) *Editor {
	return &Editor{
		store:  sprites.MustUse(store),
		pixels: sprites.BlankBitmap(),
		tool:   ToolBrush,
		dirty:  true,
	}
}

// CellAt converts a pointer position inside a surface rendered at w x h to a
// grid cell. ok is false when the surface has no area.
func CellAt(x, y, w, h float64) (cx, cy int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	cx = clampCell(int(math.Floor(x * sprites.Size / w)))
	cy = clampCell(int(math.Floor(y * sprites.Size / h)))
	return cx, cy, true
}

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v >= sprites.Size {
		return sprites.Size - 1
	}
	return v
}

// --- Tools & palette ---

// SetTool switches between brush and eraser.
func (e *Editor) SetTool(t Tool) {
	if t != ToolBrush && t != ToolEraser {
		return
	}
	if e.tool != t {
		e.tool = t
		e.dirty = true
	}
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SelectColor selects palette entry i. Out-of-range indexes are ignored.
func (e *Editor) SelectColor(i int) bool {
	if i < 0 || i >= PaletteSize {
		return false
	}
	if e.selected != i {
		e.selected = i
		e.dirty = true
	}
	return true
}

// SelectedIndex returns the selected palette index.
func (e *Editor) SelectedIndex() int { return e.selected }

// SelectedColor returns the selected palette colour.
func (e *Editor) SelectedColor() color.RGBA { return palette[e.selected] }

// --- Pointer state machine ---

// PointerDown starts a stroke and paints the cell under the pointer.
func (e *Editor) PointerDown(x, y, w, h float64) {
	e.drawing = true
	e.paintAt(x, y, w, h)
}

// PointerMove paints the cell under the pointer while a stroke is active.
// Positions between events are not interpolated.
func (e *Editor) PointerMove(x, y, w, h float64) {
	if !e.drawing {
		return
	}
	e.paintAt(x, y, w, h)
}

// PointerUp ends the stroke.
func (e *Editor) PointerUp() { e.drawing = false }

// PointerLeave ends the stroke when the pointer exits the surface.
func (e *Editor) PointerLeave() { e.drawing = false }

// Drawing reports whether a stroke is active.
func (e *Editor) Drawing() bool { return e.drawing }

func (e *Editor) paintAt(x, y, w, h float64) {
	cx, cy, ok := CellAt(x, y, w, h)
	if !ok {
		return
	}
	e.Paint(cx, cy)
}

// Paint colours one cell with the active tool. Cells outside the grid are ignored.
func (e *Editor) Paint(cx, cy int) {
	if cx < 0 || cx >= sprites.Size || cy < 0 || cy >= sprites.Size {
		return
	}
	c := e.SelectedColor()
	if e.tool == ToolEraser {
		c = sprites.White
	}
	c.A = 255
	if e.pixels[cy][cx] != c {
		e.pixels[cy][cx] = c
		e.dirty = true
	}
}

// Pixel returns the colour of one cell.
func (e *Editor) Pixel(cx, cy int) color.RGBA {
	return e.pixels[cy][cx]
}

// Bitmap returns a copy of the drawing.
func (e *Editor) Bitmap() sprites.Bitmap { return e.pixels }

// Save adds the current drawing to the store at the map origin. The drawing
// is left as is, so saving again stamps an identical sprite.
func (e *Editor) Save() sprites.Sprite {
	return e.store.Add(sprites.Sprite{
		Position: sprites.Position{X: 0, Y: 0},
		Pixels:   e.pixels,
		Label:    sprites.DefaultLabel,
	})
}

// Dirty reports whether the surface changed since the last ClearDirty.
func (e *Editor) Dirty() bool { return e.dirty }

// ClearDirty marks the surface as redrawn.
func (e *Editor) ClearDirty() { e.dirty = false }
