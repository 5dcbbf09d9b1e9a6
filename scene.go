package graffiti

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/esimov/graffiti/imop"
)

// Scene holds the display layers: the wall with the outline on top and the
// hidden artwork revealed through the mask.
type Scene struct {
	assets *Assets
	cfg    *Config

	width, height int

	base   *image.NRGBA
	art    *image.NRGBA
	stamp  *image.NRGBA
	reveal *imop.Bitmap

	stencil *imop.Composite
}

func newScene(assets *Assets, cfg *Config, width, height int) *Scene {
	stencil := imop.InitOp()
	if err := stencil.Set(imop.DstIn); err != nil {
		panic(err)
	}

	s := &Scene{
		assets:  assets,
		cfg:     cfg,
		stencil: stencil,
	}
	s.Resize(width, height)

	return s
}

// Resize rescales the display layers. The paint surface keeps its resolution.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height

	wall := imaging.Resize(s.assets.Wall, width, height, imaging.Lanczos)
	outline := imaging.Resize(s.assets.Outline, width, height, imaging.Lanczos)
	imop.Fade(outline, s.cfg.OutlineAlpha)

	var blend *imop.Blend
	if s.cfg.OutlineBlend != "" {
		blend = imop.NewBlend()
		if err := blend.Set(s.cfg.OutlineBlend); err != nil {
			Logger().Warn("ignoring outline blend mode", "error", err)
			blend = nil
		}
	}
	s.base = imop.InitOp().Draw(nil, outline, wall, blend).Img
	s.art = imaging.Resize(s.assets.Artwork, width, height, imaging.Lanczos)
	s.stamp = image.NewNRGBA(image.Rect(0, 0, width, height))
	s.reveal = imop.NewBitmap(s.art.Bounds())
}

// Size returns the display size.
func (s *Scene) Size() (int, int) {
	return s.width, s.height
}

// Reveal returns the artwork stenciled by the mask. The mask is sampled 1:1
// in display coordinates.
func (s *Scene) Reveal(mask *image.Alpha) *image.NRGBA {
	alphaToNRGBA(s.stamp, mask)
	return s.stencil.Draw(s.reveal, s.stamp, s.art, nil).Img
}

// Compose renders the full frame into dst.
func (s *Scene) Compose(dst *image.RGBA, mask *image.Alpha) {
	draw.Draw(dst, dst.Bounds(), s.base, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), s.Reveal(mask), image.Point{}, draw.Over)
}
