package graffiti

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/esimov/graffiti/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssets() *Assets {
	return &Assets{
		Wall:    imaging.New(10, 10, color.NRGBA{R: 100, G: 100, B: 100, A: 255}),
		Artwork: imaging.New(10, 10, color.NRGBA{R: 255, A: 255}),
		Outline: imaging.New(10, 10, color.NRGBA{A: 255}),
		Can:     imaging.New(4, 10, color.White),
	}
}

func TestScene_OutlineOverWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutlineAlpha = 0.5
	s := newScene(testAssets(), &cfg, 10, 10)

	c := s.base.NRGBAAt(5, 5)
	assert.InDelta(t, 50, int(c.R), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestScene_OutlineBlend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutlineAlpha = 1
	cfg.OutlineBlend = "screen"
	s := newScene(testAssets(), &cfg, 10, 10)

	// Screening black over the wall leaves the wall unchanged.
	c := s.base.NRGBAAt(5, 5)
	assert.InDelta(t, 100, int(c.R), 1)

	cfg.OutlineBlend = "unknown"
	s = newScene(testAssets(), &cfg, 10, 10)
	c = s.base.NRGBAAt(5, 5)
	assert.Equal(t, uint8(0), c.R)
}

func TestScene_RevealThroughMask(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.OutlineAlpha = 0
	s := newScene(testAssets(), &cfg, 10, 10)
	assert.Equal(imop.DstIn, s.stencil.Get())

	mask := image.NewAlpha(image.Rect(0, 0, 10, 10))
	mask.SetAlpha(2, 2, color.Alpha{A: 255})
	mask.SetAlpha(3, 3, color.Alpha{A: 128})

	reveal := s.Reveal(mask)
	assert.Equal(color.NRGBA{R: 255, A: 255}, reveal.NRGBAAt(2, 2))
	assert.Equal(uint8(128), reveal.NRGBAAt(3, 3).A)
	assert.Equal(uint8(0), reveal.NRGBAAt(5, 5).A)

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s.Compose(dst, mask)
	assert.Equal(color.RGBA{R: 255, A: 255}, dst.RGBAAt(2, 2))
	assert.Equal(color.RGBA{R: 100, G: 100, B: 100, A: 255}, dst.RGBAAt(5, 5))
}

func TestScene_Resize(t *testing.T) {
	cfg := DefaultConfig()
	s := newScene(testAssets(), &cfg, 10, 10)

	s.Resize(0, 20)
	w, h := s.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)

	s.Resize(30, 20)
	w, h = s.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, image.Rect(0, 0, 30, 20), s.base.Bounds())
	assert.Equal(t, image.Rect(0, 0, 30, 20), s.art.Bounds())

	// A smaller mask reveals nothing outside of its bounds.
	mask := image.NewAlpha(image.Rect(0, 0, 10, 10))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	reveal := s.Reveal(mask)
	assert.Equal(t, uint8(255), reveal.NRGBAAt(5, 5).A)
	assert.Equal(t, uint8(0), reveal.NRGBAAt(25, 15).A)
}

func TestAssets_LoadWithProgress(t *testing.T) {
	var steps []float64
	cfg := testConfig()
	cfg.CanTexture = "missing"

	assets, err := LoadAssets(context.Background(), memoryLoader(), cfg, func(p float64) {
		steps = append(steps, p)
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, steps)
	assert.Equal(t, []string{AssetCan}, assets.Fallbacks)
	assert.Equal(t, image.Rect(0, 0, 40, 100), assets.Can.Bounds())
	r, g, b, _ := assets.Can.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestAssets_Fallbacks(t *testing.T) {
	assert := assert.New(t)

	wall := fallbackAsset(AssetWall)
	assert.Equal(image.Rect(0, 0, 64, 64), wall.Bounds())
	assert.Equal(wallFallbackColor, color.NRGBAModel.Convert(wall.At(3, 3)))

	art := fallbackAsset(AssetArtwork)
	assert.Equal(image.Rect(0, 0, 1, 1), art.Bounds())
	_, _, _, a := art.At(0, 0).RGBA()
	assert.Equal(uint32(0), a)
}
