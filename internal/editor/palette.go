package editor

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// paletteHex is the fixed drawing palette, in display order.
var paletteHex = [PaletteSize]string{
	"#000000", "#FFFFFF", "#FF0000", "#00FF00", "#0000FF",
	"#FFFF00", "#FF00FF", "#00FFFF", "#808080", "#C0C0C0",
	"#800000", "#808000", "#008000", "#800080", "#008080",
	"#000080", "#FFA500", "#A52A2A", "#FFC0CB", "#90EE90",
}

// PaletteSize is the number of selectable colours.
const PaletteSize = 20

// palette holds the selectable colours, parsed once from paletteHex.
var palette = func() [PaletteSize]color.RGBA {
	var p [PaletteSize]color.RGBA
	for i, h := range paletteHex {
		c := gg.Hex(h)
		p[i] = color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
	}
	return p
}()

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// PaletteColor returns palette entry i, or the zero colour when i is out of range.
func PaletteColor(i int) color.RGBA {
	if i < 0 || i >= PaletteSize {
		return color.RGBA{}
	}
	return palette[i]
}

// PaletteHex returns the hex notation of palette entry i.
func PaletteHex(i int) string {
	if i < 0 || i >= PaletteSize {
		return ""
	}
	return paletteHex[i]
}
