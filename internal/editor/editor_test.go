package editor

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-art-map/internal/sprites"
)

// Rendered surface size used by most tests, 16 times the backing grid.
const surf = 256.0

func center(cell int) float64 { return float64(cell)*surf/sprites.Size + surf/sprites.Size/2 }

func TestNewPanicsWithoutStore(t *testing.T) {
	assert.PanicsWithValue(t, sprites.ErrNoStore, func() { New(nil) })
}

func TestPaletteParsed(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 255}, PaletteColor(0))
	assert.Equal(t, sprites.White, PaletteColor(1))
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xA5, A: 255}, PaletteColor(16))
	assert.Equal(t, color.RGBA{R: 0x90, G: 0xEE, B: 0x90, A: 255}, PaletteColor(19))
	assert.Equal(t, "#FF0000", PaletteHex(2))
	assert.Equal(t, "", PaletteHex(PaletteSize))
	assert.Equal(t, color.RGBA{}, PaletteColor(-1))
	assert.Equal(t, color.RGBA{}, PaletteColor(PaletteSize))

	// Callers get copies; the palette itself cannot be reassigned.
	c := PaletteColor(2)
	c.G = 99
	assert.Equal(t, color.RGBA{R: 0xFF, A: 255}, PaletteColor(2))
}

func TestInitialState(t *testing.T) {
	e := New(sprites.NewStore())
	assert.Equal(t, ToolBrush, e.Tool())
	assert.Equal(t, 0, e.SelectedIndex())
	assert.False(t, e.Drawing())
	for y := 0; y < sprites.Size; y++ {
		for x := 0; x < sprites.Size; x++ {
			require.Equal(t, sprites.White, e.Pixel(x, y))
		}
	}
}

func TestCellAtStaysInRange(t *testing.T) {
	sizes := [][2]float64{{256, 256}, {32, 16}, {17, 300}, {1, 1}, {15.5, 15.5}}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		for i := 0; i <= 200; i++ {
			x := w * float64(i) / 200
			y := h * float64(200-i) / 200
			cx, cy, ok := CellAt(x, y, w, h)
			require.True(t, ok)
			require.GreaterOrEqual(t, cx, 0)
			require.Less(t, cx, sprites.Size)
			require.GreaterOrEqual(t, cy, 0)
			require.Less(t, cy, sprites.Size)
		}
	}
}

func TestCellAtScaling(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		cx, cy     int
	}{
		{"origin", 0, 0, 256, 256, 0, 0},
		{"last cell", 255.9, 255.9, 256, 256, 15, 15},
		{"right edge", 256, 128, 256, 256, 15, 8},
		{"terminal cells", 3.5, 4.5, 32, 16, 1, 4},
		{"non square", 100, 10, 200, 20, 8, 8},
		{"negative", -3, -1, 256, 256, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy, ok := CellAt(tt.x, tt.y, tt.w, tt.h)
			require.True(t, ok)
			assert.Equal(t, tt.cx, cx)
			assert.Equal(t, tt.cy, cy)
		})
	}

	_, _, ok := CellAt(1, 1, 0, 256)
	assert.False(t, ok, "zero-width surface is unavailable")
}

func TestPaintThenErase(t *testing.T) {
	e := New(sprites.NewStore())
	require.True(t, e.SelectColor(2))

	e.PointerDown(center(5), center(7), surf, surf)
	e.PointerUp()
	assert.Equal(t, PaletteColor(2), e.Pixel(5, 7))

	// Painting elsewhere leaves (5,7) alone.
	e.SelectColor(4)
	e.PointerDown(center(6), center(7), surf, surf)
	e.PointerUp()
	assert.Equal(t, PaletteColor(2), e.Pixel(5, 7))
	assert.Equal(t, PaletteColor(4), e.Pixel(6, 7))

	e.SetTool(ToolEraser)
	e.PointerDown(center(5), center(7), surf, surf)
	e.PointerUp()
	assert.Equal(t, sprites.White, e.Pixel(5, 7))
	assert.Equal(t, PaletteColor(4), e.Pixel(6, 7))
}

func TestStrokeStateMachine(t *testing.T) {
	e := New(sprites.NewStore())

	// Moving without a press paints nothing.
	e.PointerMove(center(1), center(1), surf, surf)
	assert.Equal(t, sprites.White, e.Pixel(1, 1))

	e.PointerDown(center(0), center(0), surf, surf)
	assert.True(t, e.Drawing())
	e.PointerMove(center(3), center(0), surf, surf)
	assert.Equal(t, PaletteColor(0), e.Pixel(3, 0))
	// No interpolation between move events.
	assert.Equal(t, sprites.White, e.Pixel(1, 0))
	assert.Equal(t, sprites.White, e.Pixel(2, 0))

	e.PointerLeave()
	assert.False(t, e.Drawing())
	e.PointerMove(center(9), center(9), surf, surf)
	assert.Equal(t, sprites.White, e.Pixel(9, 9))

	e.PointerDown(center(9), center(9), surf, surf)
	e.PointerUp()
	e.PointerMove(center(10), center(10), surf, surf)
	assert.Equal(t, PaletteColor(0), e.Pixel(9, 9))
	assert.Equal(t, sprites.White, e.Pixel(10, 10))
}

func TestSelectColorOutOfRange(t *testing.T) {
	e := New(sprites.NewStore())
	e.SelectColor(3)
	assert.False(t, e.SelectColor(-1))
	assert.False(t, e.SelectColor(PaletteSize))
	assert.Equal(t, 3, e.SelectedIndex())
	assert.Equal(t, PaletteColor(3), e.SelectedColor())
}

func TestSaveTwiceStampsIdenticalSprites(t *testing.T) {
	store := sprites.NewStore()
	e := New(store)
	e.SelectColor(6)
	e.PointerDown(center(2), center(3), surf, surf)
	e.PointerUp()

	first := e.Save()
	second := e.Save()

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, list[0].Pixels, list[1].Pixels)
	assert.Equal(t, sprites.Position{}, list[0].Position)
	assert.Equal(t, sprites.Position{}, list[1].Position)
	assert.Equal(t, sprites.DefaultLabel, list[0].Label)
	assert.NotEqual(t, first.ID, second.ID)

	// The drawing is not cleared by a save.
	assert.Equal(t, PaletteColor(6), e.Pixel(2, 3))
}

func TestSavedSpriteIsDetached(t *testing.T) {
	store := sprites.NewStore()
	e := New(store)
	e.Save()

	e.PointerDown(center(0), center(0), surf, surf)
	assert.Equal(t, sprites.White, store.List()[0].Pixels[0][0])
}

func TestDirtyTracking(t *testing.T) {
	e := New(sprites.NewStore())
	assert.True(t, e.Dirty())
	e.ClearDirty()

	e.SetTool(ToolBrush)
	assert.False(t, e.Dirty(), "same tool is not a change")

	e.SetTool(ToolEraser)
	assert.True(t, e.Dirty())
	e.ClearDirty()

	// Erasing a white cell changes nothing.
	e.PointerDown(center(0), center(0), surf, surf)
	assert.False(t, e.Dirty())

	e.SelectColor(5)
	assert.True(t, e.Dirty())
}
