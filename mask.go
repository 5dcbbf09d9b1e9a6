package graffiti

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"
)

// RevealMaskEngine owns the persistent paint surface and the reveal mask derived from it.
type RevealMaskEngine struct {
	surface   *image.RGBA
	mask      *gg.Mask
	refreshes int
}

// NewRevealMaskEngine allocates a cleared paint surface and mask of the given size.
func NewRevealMaskEngine(width, height int) *RevealMaskEngine {
	e := &RevealMaskEngine{
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		mask:    gg.NewMask(width, height),
	}
	e.ClearAll()

	return e
}

// Surface returns the paint surface receiving the dabs.
func (e *RevealMaskEngine) Surface() *image.RGBA {
	return e.surface
}

// Mask returns the reveal mask. Its content is only updated by RefreshMask.
func (e *RevealMaskEngine) Mask() *gg.Mask {
	return e.mask
}

// MaskImage exposes the mask buffer as an alpha image sharing the same memory.
func (e *RevealMaskEngine) MaskImage() *image.Alpha {
	return &image.Alpha{
		Pix:    e.mask.Data(),
		Stride: e.mask.Width(),
		Rect:   e.mask.Bounds(),
	}
}

// RefreshMask replaces the mask content with the luminance of the paint surface.
func (e *RevealMaskEngine) RefreshMask() {
	e.mask.Clear()

	data := e.mask.Data()
	w, h := e.mask.Width(), e.mask.Height()
	for y := 0; y < h; y++ {
		row := e.surface.Pix[y*e.surface.Stride:]
		for x := 0; x < w; x++ {
			r, g, b := uint32(row[x*4]), uint32(row[x*4+1]), uint32(row[x*4+2])
			data[y*w+x] = uint8((299*r + 587*g + 114*b + 500) / 1000)
		}
	}
	e.refreshes++
}

// ClearAll resets the paint surface to opaque black and empties the mask.
func (e *RevealMaskEngine) ClearAll() {
	draw.Draw(e.surface, e.surface.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	e.mask.Clear()
}

// Refreshes returns the number of mask refreshes performed.
func (e *RevealMaskEngine) Refreshes() int {
	return e.refreshes
}

// Coverage returns the fraction of mask pixels that reveal some artwork.
func (e *RevealMaskEngine) Coverage() float64 {
	data := e.mask.Data()
	if len(data) == 0 {
		return 0
	}
	var n int
	for _, v := range data {
		if v > 0 {
			n++
		}
	}
	return float64(n) / float64(len(data))
}
