package app

import (
	"pixel-art-map/internal/editor"
	"pixel-art-map/internal/render"
	"pixel-art-map/internal/sprites"
)

const (
	// SidebarWidth is the width in columns of the editor panel on the right.
	SidebarWidth = 36

	// EditorCellCols is how many columns one sprite grid cell occupies.
	// With one row per cell this keeps grid cells roughly square.
	EditorCellCols = 2

	paletteCols   = 4
	swatchWidth   = 6
	swatchStride  = 8
	minMapColumns = 10
	headerRows    = 1
)

// MinWidth and MinHeight are the smallest terminal the layout fits in.
const (
	MinWidth  = SidebarWidth + minMapColumns
	MinHeight = 32
)

// Layout places every interactive region for one terminal size.
type Layout struct {
	Width, Height int

	Map    render.Rect // map surface
	Editor render.Rect // sprite editor surface

	Brush, Eraser, Save          render.Rect
	Move, Place, ZoomIn, ZoomOut render.Rect
	Swatches                     [editor.PaletteSize]render.Rect

	SidebarX  int
	ColorRow  int // hex value of the selected colour, under the swatches
	MapHeader int // row of the map section heading in the sidebar
	StatusRow int
	HelpRow   int
}

// Fits reports whether the terminal is large enough for the layout.
func (l Layout) Fits() bool {
	return l.Width >= MinWidth && l.Height >= MinHeight
}

// NewLayout computes the regions for a termW x termH terminal.
func NewLayout(termW, termH int) Layout {
	l := Layout{Width: termW, Height: termH}
	if !l.Fits() {
		return l
	}

	l.SidebarX = termW - SidebarWidth
	l.Map = render.Rect{X: 0, Y: headerRows, W: l.SidebarX - 1, H: termH - headerRows}

	x := l.SidebarX + 2
	l.Editor = render.Rect{X: x, Y: 2, W: sprites.Size * EditorCellCols, H: sprites.Size}

	toolRow := l.Editor.Y + l.Editor.H + 1
	l.Brush = render.Rect{X: x, Y: toolRow, W: len(labelBrush)}
	l.Eraser = render.Rect{X: l.Brush.X + l.Brush.W + 1, Y: toolRow, W: len(labelEraser)}
	l.Save = render.Rect{X: l.Eraser.X + l.Eraser.W + 1, Y: toolRow, W: len(labelSave)}
	for _, r := range []*render.Rect{&l.Brush, &l.Eraser, &l.Save} {
		r.H = 1
	}

	paletteRow := toolRow + 2
	for i := range l.Swatches {
		l.Swatches[i] = render.Rect{
			X: x + (i%paletteCols)*swatchStride,
			Y: paletteRow + i/paletteCols,
			W: swatchWidth,
			H: 1,
		}
	}

	l.ColorRow = paletteRow + editor.PaletteSize/paletteCols
	l.MapHeader = l.ColorRow + 1
	mapRow := l.MapHeader + 1
	l.Move = render.Rect{X: x, Y: mapRow, W: len(labelMove), H: 1}
	l.Place = render.Rect{X: l.Move.X + l.Move.W + 1, Y: mapRow, W: len(labelPlace), H: 1}
	l.ZoomIn = render.Rect{X: l.Place.X + l.Place.W + 1, Y: mapRow, W: len(labelZoomIn), H: 1}
	l.ZoomOut = render.Rect{X: l.ZoomIn.X + l.ZoomIn.W + 1, Y: mapRow, W: len(labelZoomOut), H: 1}

	l.StatusRow = mapRow + 1
	l.HelpRow = termH - 1
	return l
}

// MapPixels returns the pixel size of the map surface.
func (l Layout) MapPixels() (int, int) {
	return render.PixelsForCells(l.Map.W, l.Map.H)
}

// MapPoint converts a terminal cell inside the map surface to the centre of
// that cell in map surface pixels.
func (l Layout) MapPoint(col, row int) (float64, float64) {
	lx, ly := l.Map.Local(col, row)
	return float64(lx*render.PixelsPerCol) + 0.5*render.PixelsPerCol,
		float64(ly*render.PixelsPerRow) + 0.5*render.PixelsPerRow
}

// EditorPoint converts a terminal cell inside the editor surface to the centre
// of that cell, plus the rendered surface size, all in cell units.
func (l Layout) EditorPoint(col, row int) (x, y, w, h float64) {
	lx, ly := l.Editor.Local(col, row)
	return float64(lx) + 0.5, float64(ly) + 0.5, float64(l.Editor.W), float64(l.Editor.H)
}
