package sprites

import (
	"image"
	"image/color"
)

const (
	// Size is the width and height of a sprite bitmap in pixels.
	Size = 16

	// DefaultLabel is the label given to sprites saved from the editor.
	DefaultLabel = "New Sprite"
)

// White is the blank pixel colour.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Bitmap is a Size x Size grid of pixels, indexed [y][x].
type Bitmap [Size][Size]color.RGBA

// Position is a location in map logical units.
type Position struct {
	X, Y int
}

// Sprite is a placed pixel-art bitmap.
type Sprite struct {
	ID       string
	Position Position
	Pixels   Bitmap
	Label    string
}

// BlankBitmap returns a bitmap filled with white.
func BlankBitmap() Bitmap {
	return FillBitmap(White)
}

// FillBitmap returns a bitmap filled with a single colour.
func FillBitmap(c color.RGBA) Bitmap {
	var b Bitmap
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			b[y][x] = c
		}
	}
	return b
}

// Image copies the bitmap into an *image.RGBA.
func (b *Bitmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			img.SetRGBA(x, y, b[y][x])
		}
	}
	return img
}
