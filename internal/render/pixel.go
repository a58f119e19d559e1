package render

import (
	"image"

	"golang.org/x/image/draw"
)

const (
	// PixelsPerRow is how many image pixels one terminal row shows (half blocks).
	PixelsPerRow = 2
	// PixelsPerCol is how many image pixels one terminal column shows.
	PixelsPerCol = 1
)

// PixelsForCells returns the pixel size of an area of cols x rows cells.
func PixelsForCells(cols, rows int) (w, h int) {
	return cols * PixelsPerCol, rows * PixelsPerRow
}

// ScaleNearest enlarges src to w x h pixels without smoothing, keeping pixel art crisp.
func ScaleNearest(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
