package graffiti

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscale(t *testing.T) {
	img := imaging.New(10, 10, color.NRGBA{R: 177, G: 177, B: 177, A: 255})
	gray := Grayscale(img)

	for _, v := range gray.Pix {
		if v != 177 {
			t.Fatalf("expected luminance 177, got %d", v)
		}
	}
	assert.Equal(t, uint8(76), Grayscale(imaging.New(1, 1, color.NRGBA{R: 255, A: 255})).Pix[0])
}

func TestSobelFilter_FlatImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 12, 12))
	for i := range gray.Pix {
		gray.Pix[i] = 200
	}
	edges := SobelFilter(gray, 0)
	for _, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("expected no edges, got %d", v)
		}
	}
}

func TestTraceOutline(t *testing.T) {
	art := imaging.New(20, 20, color.White)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			art.Set(x, y, color.Black)
		}
	}
	outline := TraceOutline(art)
	require.Equal(t, art.Bounds(), outline.Bounds())

	assert.Greater(t, outline.NRGBAAt(10, 10).A, uint8(0))
	assert.Equal(t, uint8(0), outline.NRGBAAt(10, 10).R)
	assert.Zero(t, outline.NRGBAAt(2, 10).A)
	assert.Zero(t, outline.NRGBAAt(18, 10).A)
}

func TestAssets_TraceMissingOutline(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context, path string) (image.Image, error) {
		if path == "outline" {
			return nil, assert.AnError
		}
		return memoryLoader().Load(ctx, path)
	})
	assets, err := LoadAssets(context.Background(), loader, testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{AssetOutline}, assets.Fallbacks)
	assert.Equal(t, image.Rect(0, 0, 50, 50), assets.Outline.Bounds())
}
