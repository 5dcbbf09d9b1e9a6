package graffiti

import (
	"image"
	"math"

	"github.com/esimov/graffiti/utils"
)

const (
	// outlineThreshold is the minimum edge magnitude kept in a traced outline.
	outlineThreshold = 48
	// outlineBlur is the smoothing radius of a traced outline.
	outlineBlur = 1
)

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Grayscale returns the luminance of src as a single channel image.
func Grayscale(src image.Image) *image.Gray {
	img := imgToNRGBA(src)
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := float32(row[x*4]), float32(row[x*4+1]), float32(row[x*4+2])
			dst.Pix[y*dst.Stride+x] = uint8(r*0.299 + g*0.587 + bl*0.114 + 0.5)
		}
	}
	return dst
}

// SobelFilter returns the edge magnitude of a grayscale image.
// Magnitudes not exceeding the threshold are zeroed.
// See https://en.wikipedia.org/wiki/Sobel_operator
func SobelFilter(gray *image.Gray, threshold float64) *image.Alpha {
	b := gray.Bounds()
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewAlpha(image.Rect(0, 0, dx, dy))

	at := func(x, y int) int32 {
		x = utils.Clamp(x, 0, dx-1)
		y = utils.Clamp(y, 0, dy-1)
		return int32(gray.Pix[y*gray.Stride+x])
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					px := at(x+kx-1, y+ky-1)
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			magnitude := math.Min(math.Sqrt(float64(sumX*sumX)+float64(sumY*sumY)), 255)
			if magnitude > threshold {
				dst.Pix[y*dst.Stride+x] = uint8(magnitude)
			}
		}
	}
	return dst
}

// TraceOutline derives a dark line drawing from the artwork edges.
// It stands in for the outline texture when that one is missing.
func TraceOutline(art image.Image) *image.NRGBA {
	edges := SobelFilter(Grayscale(art), outlineThreshold)
	edges = StackblurAlpha(edges, outlineBlur)

	dst := image.NewNRGBA(edges.Bounds())
	for i, a := range edges.Pix {
		dst.Pix[i*4+3] = a
	}
	return dst
}
