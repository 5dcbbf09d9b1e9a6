package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 0xff, A: 0xff})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f, err := DownloadImage(context.Background(), srv.URL+"/wall.png")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	img, _, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestUtils_ShouldRejectNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not an image</body></html>"))
	}))
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldFailOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsValidUrl("https://github.com/esimov/caire/"))
	assert.False(IsValidUrl("assets/wall.jpg"))
	assert.False(IsValidUrl("/tmp/wall.jpg"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "sample.png")
	require.NoError(t, os.WriteFile(fname, pngBytes(t), 0644))

	ftype, err := DetectContentType(fname)
	require.NoError(t, err)
	assert.Contains(t, ftype, "image")
}

func TestUtils_Math(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(1.5, Abs(-1.5))
	assert.Equal(1.0, Clamp(3.0, 0, 1))
	assert.Equal(0.0, Clamp(-3.0, 0, 1))
	assert.Equal(0.4, Clamp(0.4, 0, 1))
	assert.True(Contains([]string{"spray", "shake"}, "shake"))
	assert.False(Contains([]string{"spray"}, "shake"))
}
