package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestExport_FormatFromPath(t *testing.T) {
	testCases := []struct {
		path   string
		format string
		err    bool
	}{
		{"wall.png", PNG, false},
		{"wall.JPG", JPEG, false},
		{"wall.jpeg", JPEG, false},
		{"wall.bmp", BMP, false},
		{"out/wall.pdf", PDF, false},
		{"wall.gif", "", true},
		{"wall", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			format, err := FormatFromPath(tc.path)
			if tc.err {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)
		})
	}
}

func TestExport_EncodeRaster(t *testing.T) {
	src := testImage()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, PNG, Meta{}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	assert.Equal(t, color.NRGBAModel.Convert(src.At(7, 3)), color.NRGBAModel.Convert(img.At(7, 3)))

	buf.Reset()
	require.NoError(t, Encode(&buf, src, BMP, Meta{}))
	img, err = bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	assert.ErrorIs(t, Encode(&buf, src, "tiff", Meta{}), ErrUnsupportedFormat)
}

func TestExport_EncodePDF(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{
		Title:     "Wall",
		SessionID: "0b7c8a6e-session",
		Created:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, Encode(&buf, testImage(), PDF, meta))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "session:0b7c8a6e-session")
	assert.Contains(t, string(out), "/Subtype /Image")

	assert.Error(t, Encode(&buf, image.NewRGBA(image.Rect(0, 0, 0, 0)), PDF, Meta{}))
}

func TestExport_SaveFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "wall.png")
	require.NoError(t, SaveFile(path, testImage(), Meta{}))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	path = filepath.Join(dir, "wall.jpg")
	require.NoError(t, SaveFile(path, testImage(), Meta{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])

	assert.Error(t, SaveFile(filepath.Join(dir, "wall.tga"), testImage(), Meta{}))
}

func TestExport_WriteToStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testImage(), Meta{}))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}
