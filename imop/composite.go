package imop

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/graffiti/utils"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap holds the result of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// InitOp returns a Composite using the source-over operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set changes the composition operation.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop

	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff source and destination fractions.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composites src onto dst with the active operation and writes the result into bitmap.
// The bitmap covers the dst bounds; src pixels outside of its own bounds count as transparent.
// When blend is not nil the source colors are mixed with the backdrop before compositing.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) *Bitmap {
	rect := dst.Bounds()
	if bitmap == nil || bitmap.Img.Bounds() != rect {
		bitmap = NewBitmap(rect)
	}
	out := bitmap.Img
	sb := src.Bounds()

	var cs, cb [3]float64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			di := dst.PixOffset(x, y)
			oi := out.PixOffset(x, y)

			var as float64
			if (image.Point{X: x, Y: y}).In(sb) {
				si := src.PixOffset(x, y)
				as = float64(src.Pix[si+3]) / 255
				for c := 0; c < 3; c++ {
					cs[c] = float64(src.Pix[si+c]) / 255
				}
			} else {
				cs = [3]float64{}
			}
			ab := float64(dst.Pix[di+3]) / 255
			for c := 0; c < 3; c++ {
				cb[c] = float64(dst.Pix[di+c]) / 255
			}

			if blend != nil && blend.OpType != "" {
				for c := 0; c < 3; c++ {
					cs[c] = (1-ab)*cs[c] + ab*blend.apply(cb[c], cs[c])
				}
			}

			fa, fb := op.factors(as, ab)
			ao := as*fa + ab*fb
			if ao <= 0 {
				out.Pix[oi], out.Pix[oi+1], out.Pix[oi+2], out.Pix[oi+3] = 0, 0, 0, 0
				continue
			}
			for c := 0; c < 3; c++ {
				co := (as*fa*cs[c] + ab*fb*cb[c]) / ao
				out.Pix[oi+c] = toByte(co)
			}
			out.Pix[oi+3] = toByte(ao)
		}
	}
	return bitmap
}

// Fade multiplies the alpha channel of img by opacity.
func Fade(img *image.NRGBA, opacity float64) {
	opacity = utils.Clamp(opacity, 0, 1)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = toByte(float64(img.Pix[i]) / 255 * opacity)
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
