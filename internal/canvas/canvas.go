package canvas

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"pixel-art-map/internal/sprites"
)

const (
	// WorldSize is the width and height of the map in logical units.
	WorldSize = 2048
	// GridPitch is the spacing of background grid lines in logical units.
	GridPitch = 16

	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 1.2
)

var (
	backgroundColor = gg.White
	gridColor       = gg.Hex("#EEEEEE")
)

// Tool is the active map tool.
type Tool int

const (
	ToolPlace Tool = iota
	ToolMove
)

func (t Tool) String() string {
	switch t {
	case ToolPlace:
		return "place"
	case ToolMove:
		return "move"
	default:
		return "unknown"
	}
}

// Point is a position in screen pixels or map units.
type Point struct {
	X, Y float64
}

// Canvas renders the shared sprites onto a pannable, zoomable grid.
type Canvas struct {
	store *sprites.Store

	offset   Point
	zoom     float64
	tool     Tool
	panning  bool
	panStart Point // pointer position minus offset at press time
	dirty    bool

	scaled map[scaledKey]*gg.ImageBuf // dropped on zoom change
}

// scaledKey identifies a sprite bitmap scaled to a device size.
type scaledKey struct {
	id   string
	size image.Point
}

// New creates a canvas with no pan, zoom 1 and the place tool.
// It panics with sprites.ErrNoStore if store is nil.
func New(store *sprites.Store) *Canvas {
	return &Canvas{
		store: sprites.MustUse(store),
		zoom:  1,
		tool:  ToolPlace,
		dirty: true,
	}
}

// Offset returns the pan offset in screen pixels.
func (c *Canvas) Offset() Point { return c.offset }

// Zoom returns the current zoom factor.
func (c *Canvas) Zoom() float64 { return c.zoom }

// Tool returns the active tool.
func (c *Canvas) Tool() Tool { return c.tool }

// Panning reports whether a pan drag is in progress.
func (c *Canvas) Panning() bool { return c.panning }

// SetTool switches the map tool and cancels any drag in progress.
func (c *Canvas) SetTool(t Tool) {
	if t != ToolPlace && t != ToolMove {
		return
	}
	c.panning = false
	if c.tool != t {
		c.tool = t
		c.dirty = true
	}
}

// --- Zoom ---

// ZoomIn enlarges the view by one step, anchored at the surface origin.
func (c *Canvas) ZoomIn() { c.setZoom(c.zoom * ZoomStep) }

// ZoomOut shrinks the view by one step, anchored at the surface origin.
func (c *Canvas) ZoomOut() { c.setZoom(c.zoom / ZoomStep) }

func (c *Canvas) setZoom(z float64) {
	z = math.Max(MinZoom, math.Min(MaxZoom, z))
	if z != c.zoom {
		c.zoom = z
		c.scaled = nil
		c.dirty = true
	}
}

// --- Pointer ---

// PointerDown starts a pan when the move tool is active.
func (c *Canvas) PointerDown(x, y float64) {
	if c.tool != ToolMove {
		return
	}
	c.panning = true
	c.panStart = Point{X: x - c.offset.X, Y: y - c.offset.Y}
}

// PointerMove pans the view by the pointer delta since the press.
func (c *Canvas) PointerMove(x, y float64) {
	if !c.panning || c.tool != ToolMove {
		return
	}
	next := Point{X: x - c.panStart.X, Y: y - c.panStart.Y}
	if next != c.offset {
		c.offset = next
		c.dirty = true
	}
}

// PointerUp ends a pan.
func (c *Canvas) PointerUp() { c.panning = false }

// PointerLeave ends a pan when the pointer exits the surface.
func (c *Canvas) PointerLeave() { c.panning = false }

// --- Transforms ---

// ScreenToMap converts a surface position to map logical units.
func (c *Canvas) ScreenToMap(x, y float64) Point {
	return Point{
		X: (x - c.offset.X) / c.zoom,
		Y: (y - c.offset.Y) / c.zoom,
	}
}

// MapToScreen converts map logical units to a surface position.
func (c *Canvas) MapToScreen(x, y float64) Point {
	return Point{
		X: x*c.zoom + c.offset.X,
		Y: y*c.zoom + c.offset.Y,
	}
}

// CellAt returns the grid cell under a surface position. ok is false when the
// position lies outside the map.
func (c *Canvas) CellAt(x, y float64) (cx, cy int, ok bool) {
	p := c.ScreenToMap(x, y)
	if p.X < 0 || p.Y < 0 || p.X >= WorldSize || p.Y >= WorldSize {
		return 0, 0, false
	}
	return int(p.X) / GridPitch, int(p.Y) / GridPitch, true
}

// --- Rendering ---

// Render redraws the whole surface from the current view and store contents.
// A nil or empty context is ignored.
func (c *Canvas) Render(dc *gg.Context) error {
	if dc == nil || dc.Width() <= 0 || dc.Height() <= 0 {
		return nil
	}

	dc.ClearWithColor(backgroundColor)

	dc.Push()
	defer dc.Pop()

	dc.Translate(c.offset.X, c.offset.Y)
	dc.Scale(c.zoom, c.zoom)

	if err := drawGrid(dc); err != nil {
		return fmt.Errorf("draw grid: %w", err)
	}

	for _, sp := range c.store.List() {
		c.drawSprite(dc, &sp)
	}
	return nil
}

func drawGrid(dc *gg.Context) error {
	dc.SetColor(gridColor.Color())
	dc.SetLineWidth(1)
	for v := 0; v < WorldSize; v += GridPitch {
		dc.DrawLine(float64(v), 0, float64(v), WorldSize)
		dc.DrawLine(0, float64(v), WorldSize, float64(v))
	}
	return dc.Stroke()
}

// drawSprite blits a sprite bitmap at its map position. gg maps the
// destination rectangle through the current transform but samples the
// source one to one, so the bitmap is scaled to the device size first.
func (c *Canvas) drawSprite(dc *gg.Context, sp *sprites.Sprite) {
	x := float64(sp.Position.X)
	y := float64(sp.Position.Y)
	tl := c.MapToScreen(x, y)
	br := c.MapToScreen(x+sprites.Size, y+sprites.Size)
	size := image.Pt(int(br.X-tl.X), int(br.Y-tl.Y))
	if size.X <= 0 || size.Y <= 0 {
		return
	}

	dc.DrawImageEx(c.scaledBitmap(sp, size), gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      sprites.Size,
		DstHeight:     sprites.Size,
		Interpolation: gg.InterpNearest,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
}

func (c *Canvas) scaledBitmap(sp *sprites.Sprite, size image.Point) *gg.ImageBuf {
	key := scaledKey{id: sp.ID, size: size}
	if buf, ok := c.scaled[key]; ok && sp.ID != "" {
		return buf
	}

	dst := image.NewRGBA(image.Rectangle{Max: size})
	src := sp.Pixels.Image()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	buf := gg.ImageBufFromImage(dst)
	if sp.ID != "" {
		if c.scaled == nil {
			c.scaled = make(map[scaledKey]*gg.ImageBuf)
		}
		c.scaled[key] = buf
	}
	return buf
}

// Dirty reports whether the view changed since the last ClearDirty.
func (c *Canvas) Dirty() bool { return c.dirty }

// MarkDirty requests a redraw, e.g. after the store changed.
func (c *Canvas) MarkDirty() { c.dirty = true }

// ClearDirty marks the surface as redrawn.
func (c *Canvas) ClearDirty() { c.dirty = false }
