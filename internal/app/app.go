// Package app wires a sprite editor and a map canvas onto one terminal:
// layout, pointer routing, and frame composition.
package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"

	"pixel-art-map/internal/canvas"
	"pixel-art-map/internal/editor"
	"pixel-art-map/internal/input"
	"pixel-art-map/internal/render"
	"pixel-art-map/internal/sprites"
)

const (
	labelBrush   = "[Brush]"
	labelEraser  = "[Eraser]"
	labelSave    = "[Save]"
	labelMove    = "[Move]"
	labelPlace   = "[Place]"
	labelZoomIn  = "[+]"
	labelZoomOut = "[-]"
)

// region is the surface a pointer press was captured by.
type region int

const (
	regionNone region = iota
	regionEditor
	regionMap
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for session events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *App) { a.log = log }
}

// WithSaveHook registers a callback run after every sprite save.
func WithSaveHook(fn func(sprites.Sprite)) Option {
	return func(a *App) { a.onSave = fn }
}

// App is one user's editor and map view. It is not safe for concurrent use;
// the owning session drives it from a single goroutine.
type App struct {
	store  *sprites.Store
	editor *editor.Editor
	canvas *canvas.Canvas
	log    logrus.FieldLogger
	onSave func(sprites.Sprite)

	layout  Layout
	capture region

	mapDC    *gg.Context
	mapImage image.Image

	hoverCell  [2]int
	hoverValid bool
	dirty      bool
}

// New creates an application bound to store. It panics with
// sprites.ErrNoStore if store is nil.
func New(store *sprites.Store, opts ...Option) *App {
	a := &App{
		store:  sprites.MustUse(store),
		editor: editor.New(store),
		canvas: canvas.New(store),
		log:    logrus.StandardLogger(),
		dirty:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Editor returns the sprite editor.
func (a *App) Editor() *editor.Editor { return a.editor }

// Canvas returns the map canvas.
func (a *App) Canvas() *canvas.Canvas { return a.canvas }

// Layout returns the current layout.
func (a *App) Layout() Layout { return a.layout }

// Resize lays the application out for a new terminal size.
func (a *App) Resize(width, height int) {
	if width == a.layout.Width && height == a.layout.Height {
		return
	}
	a.layout = NewLayout(width, height)
	a.capture = regionNone
	a.editor.PointerLeave()
	a.canvas.PointerLeave()

	if a.mapDC != nil {
		_ = a.mapDC.Close()
		a.mapDC = nil
	}
	a.mapImage = nil
	if a.layout.Fits() {
		w, h := a.layout.MapPixels()
		a.mapDC = gg.NewContext(w, h)
	}
	a.canvas.MarkDirty()
	a.dirty = true
}

// MarkDirty requests a redraw, e.g. after another session added a sprite.
func (a *App) MarkDirty() {
	a.canvas.MarkDirty()
	a.dirty = true
}

// NeedsRedraw reports whether Draw would produce a different frame.
func (a *App) NeedsRedraw() bool {
	return a.dirty || a.editor.Dirty() || a.canvas.Dirty()
}

// Handle applies one input event. It returns true when the user asked to quit.
func (a *App) Handle(ev input.Event) bool {
	switch ev.Kind {
	case input.KindQuit:
		return true
	case input.KindMouse:
		a.handleMouse(ev)
	}
	return false
}

func (a *App) handleMouse(ev input.Event) {
	l := a.layout
	if !l.Fits() {
		return
	}

	switch ev.Action {
	case input.ActionPress:
		if ev.Button != input.ButtonLeft {
			return
		}
		a.press(ev.X, ev.Y)

	case input.ActionDrag:
		a.drag(ev.X, ev.Y)

	case input.ActionRelease:
		switch a.capture {
		case regionEditor:
			a.editor.PointerUp()
		case regionMap:
			a.canvas.PointerUp()
		}
		a.capture = regionNone

	case input.ActionMove:
		a.hover(ev.X, ev.Y)
	}
}

func (a *App) press(col, row int) {
	l := a.layout
	switch {
	case l.Editor.Contains(col, row):
		a.capture = regionEditor
		a.editor.PointerDown(l.EditorPoint(col, row))
	case l.Map.Contains(col, row):
		a.capture = regionMap
		a.hover(col, row)
		a.canvas.PointerDown(l.MapPoint(col, row))
	default:
		a.capture = regionNone
		a.clickChrome(col, row)
	}
}

func (a *App) drag(col, row int) {
	l := a.layout
	switch a.capture {
	case regionEditor:
		if !l.Editor.Contains(col, row) {
			a.editor.PointerLeave()
			a.capture = regionNone
			return
		}
		a.editor.PointerMove(l.EditorPoint(col, row))
	case regionMap:
		if !l.Map.Contains(col, row) {
			a.canvas.PointerLeave()
			a.capture = regionNone
			return
		}
		a.hover(col, row)
		a.canvas.PointerMove(l.MapPoint(col, row))
	}
}

func (a *App) hover(col, row int) {
	l := a.layout
	valid := false
	var cell [2]int
	if l.Map.Contains(col, row) {
		cx, cy, ok := a.canvas.CellAt(l.MapPoint(col, row))
		valid, cell = ok, [2]int{cx, cy}
	}
	if valid != a.hoverValid || cell != a.hoverCell {
		a.hoverValid, a.hoverCell = valid, cell
		a.dirty = true
	}
}

// clickChrome handles presses on buttons and palette swatches.
func (a *App) clickChrome(col, row int) {
	l := a.layout
	switch {
	case l.Brush.Contains(col, row):
		a.editor.SetTool(editor.ToolBrush)
	case l.Eraser.Contains(col, row):
		a.editor.SetTool(editor.ToolEraser)
	case l.Save.Contains(col, row):
		a.save()
	case l.Move.Contains(col, row):
		a.canvas.SetTool(canvas.ToolMove)
	case l.Place.Contains(col, row):
		a.canvas.SetTool(canvas.ToolPlace)
	case l.ZoomIn.Contains(col, row):
		a.canvas.ZoomIn()
	case l.ZoomOut.Contains(col, row):
		a.canvas.ZoomOut()
	default:
		for i, r := range l.Swatches {
			if r.Contains(col, row) {
				a.editor.SelectColor(i)
				return
			}
		}
	}
}

func (a *App) save() {
	sp := a.editor.Save()
	a.log.WithFields(logrus.Fields{
		"sprite": sp.ID,
		"total":  a.store.Len(),
	}).Info("Sprite saved")
	a.MarkDirty()
	if a.onSave != nil {
		a.onSave(sp)
	}
}

// --- Drawing ---

var (
	chromeBG   = color.RGBA{R: 15, G: 18, B: 30, A: 255}
	chromeText = render.Cell{FgR: 180, FgG: 180, FgB: 195, BgR: 15, BgG: 18, BgB: 30}
	chromeDim  = render.Cell{FgR: 110, FgG: 110, FgB: 125, BgR: 15, BgG: 18, BgB: 30}
	titleText  = render.Cell{FgR: 255, FgG: 220, FgB: 100, BgR: 15, BgG: 18, BgB: 30, Bold: true}
	activeBtn  = render.Cell{FgR: 20, FgG: 20, FgB: 30, BgR: 140, BgG: 190, BgB: 255, Bold: true}
	idleBtn    = render.Cell{FgR: 220, FgG: 220, FgB: 235, BgR: 45, BgG: 50, BgB: 70}
	separator  = render.Cell{Ch: '│', FgR: 50, FgG: 60, FgB: 80, BgR: 15, BgG: 18, BgB: 30}
)

// Draw composes the current frame and clears the dirty state.
func (a *App) Draw() *render.Buffer {
	l := a.layout
	buf := render.NewBuffer(l.Width, l.Height)
	buf.Fill(render.Solid(chromeBG))

	defer func() {
		a.dirty = false
		a.editor.ClearDirty()
	}()

	if !l.Fits() {
		msg := fmt.Sprintf("Terminal too small: need %dx%d", MinWidth, MinHeight)
		buf.WriteText(0, 0, l.Width, msg, titleText)
		return buf
	}

	a.drawMap(buf)
	a.drawSidebar(buf)
	return buf
}

func (a *App) drawMap(buf *render.Buffer) {
	l := a.layout
	buf.WriteText(1, 0, l.SidebarX, "Pixel Art Map", titleText)
	for y := 0; y < l.Height; y++ {
		buf.Set(l.SidebarX-1, y, separator)
	}

	if a.canvas.Dirty() || a.mapImage == nil {
		if err := a.canvas.Render(a.mapDC); err != nil {
			a.log.WithError(err).Warn("Map render failed")
		}
		if a.mapDC != nil {
			a.mapImage = a.mapDC.Image()
		}
		a.canvas.ClearDirty()
	}
	if a.mapImage != nil {
		buf.StampImage(a.mapImage, l.Map.X, l.Map.Y, chromeBG)
	}
}

func (a *App) drawSidebar(buf *render.Buffer) {
	l := a.layout
	x := l.SidebarX + 2
	maxCol := l.Width

	buf.WriteText(x, 0, maxCol, "Sprite Editor", titleText)

	// Editor surface: each grid cell is EditorCellCols x 1 cells, i.e. 2x2 half-block pixels.
	bm := a.editor.Bitmap()
	pw, ph := render.PixelsForCells(l.Editor.W, l.Editor.H)
	buf.StampImage(render.ScaleNearest(bm.Image(), pw, ph), l.Editor.X, l.Editor.Y, chromeBG)

	drawButton(buf, l.Brush, labelBrush, a.editor.Tool() == editor.ToolBrush)
	drawButton(buf, l.Eraser, labelEraser, a.editor.Tool() == editor.ToolEraser)
	drawButton(buf, l.Save, labelSave, false)

	for i, r := range l.Swatches {
		c := editor.PaletteColor(i)
		buf.FillRect(r, render.Solid(c))
		if i == a.editor.SelectedIndex() {
			marker := render.Cell{Ch: '◆', FgR: 255 - c.R, FgG: 255 - c.G, FgB: 255 - c.B, BgR: c.R, BgG: c.G, BgB: c.B, Bold: true}
			buf.Set(r.X+r.W/2, r.Y, marker)
		}
	}

	buf.WriteText(x, l.ColorRow, maxCol, "colour "+editor.PaletteHex(a.editor.SelectedIndex()), chromeText)

	buf.WriteText(x, l.MapHeader, maxCol, "Map", titleText)
	drawButton(buf, l.Move, labelMove, a.canvas.Tool() == canvas.ToolMove)
	drawButton(buf, l.Place, labelPlace, a.canvas.Tool() == canvas.ToolPlace)
	drawButton(buf, l.ZoomIn, labelZoomIn, false)
	drawButton(buf, l.ZoomOut, labelZoomOut, false)

	off := a.canvas.Offset()
	status := fmt.Sprintf("zoom %.2f  offset %.0f,%.0f", a.canvas.Zoom(), off.X, off.Y)
	buf.WriteText(x, l.StatusRow, maxCol, status, chromeText)

	cell := "cell -"
	if a.hoverValid {
		cell = fmt.Sprintf("cell %d,%d", a.hoverCell[0], a.hoverCell[1])
	}
	buf.WriteText(x, l.StatusRow+1, maxCol, fmt.Sprintf("%s  sprites %d", cell, a.store.Len()), chromeText)

	buf.WriteText(x, l.HelpRow, maxCol, "Q Quit", chromeDim)
}

func drawButton(buf *render.Buffer, r render.Rect, label string, active bool) {
	style := idleBtn
	if active {
		style = activeBtn
	}
	buf.WriteText(r.X, r.Y, r.X+r.W, label, style)
}
