package graffiti

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"time"

	"golang.org/x/image/vector"
)

const (
	// Damping scales down the dab alpha so that repeated passes build up gradually.
	Damping = 0.3
	// CoreAlpha is the opacity of the dab core relative to the dab alpha.
	CoreAlpha = 0.8

	speckleSpread = 0.3
	speckleSize   = 0.08
)

// Rand is the random source used for the speckle scatter.
type Rand interface {
	Float64() float64
}

// NewRand returns a random source seeded with seed. A zero seed uses the current time.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Dab describes a single rendered dab.
type Dab struct {
	X, Y     float64
	Size     float64
	Alpha    float64
	Speckles int
}

// BrushStats counts the stamps handled by a renderer.
type BrushStats struct {
	Stamps  int
	Skipped int
}

type spriteKey struct {
	diameter int
	blur     uint32
}

// BrushStampRenderer composites procedural spray dabs onto a persistent surface.
type BrushStampRenderer struct {
	cfg *Config
	can *PressureModel
	rnd Rand

	sprites map[spriteKey]*image.Alpha
	scratch *image.RGBA
	rast    vector.Rasterizer
	stats   BrushStats
}

// NewBrushStampRenderer creates a renderer gated by the can pressure model.
func NewBrushStampRenderer(cfg *Config, can *PressureModel, rnd Rand) *BrushStampRenderer {
	if rnd == nil {
		rnd = NewRand(0)
	}
	return &BrushStampRenderer{
		cfg:     cfg,
		can:     can,
		rnd:     rnd,
		sprites: make(map[spriteKey]*image.Alpha),
	}
}

// Dab derives the dab parameters for the stroke point from the brush configuration,
// the stroke pressure and the can pressure.
func (b *BrushStampRenderer) Dab(p StrokePoint) Dab {
	pressure := p.Pressure
	if !finite(pressure) {
		pressure = 1
	}
	can := b.can.Pressure()
	size := b.cfg.BrushSize * pressure * can

	return Dab{
		X:        p.X,
		Y:        p.Y,
		Size:     size,
		Alpha:    b.cfg.PaintAlpha * pressure * can * Damping,
		Speckles: int(math.Floor(size*b.cfg.SprayDensity*0.5 + 1e-9)),
	}
}

// Stamp composites one dab at p onto dst without clearing prior content.
// It reports false when the can cannot paint or the dab is degenerate.
func (b *BrushStampRenderer) Stamp(dst *image.RGBA, p StrokePoint) (Dab, bool) {
	if !b.can.CanPaint() {
		b.stats.Skipped++
		return Dab{}, false
	}
	dab := b.Dab(p)
	if !(dab.Size > 0) || !finite(dab.Alpha) || dab.Alpha <= 0 {
		b.stats.Skipped++
		return dab, false
	}

	blur := b.blurRadius(dab.Size)
	pad := int(blur) + 2
	diameter := int(math.Ceil(dab.Size))
	extent := diameter + 2*pad

	// The dab is built in a scratch buffer centered on the stamp position,
	// then composited once onto the surface.
	ox := int(math.Round(dab.X)) - extent/2
	oy := int(math.Round(dab.Y)) - extent/2
	scratch := b.scratchBuffer(extent)

	sprite := b.sprite(diameter, blur, pad)
	draw.DrawMask(scratch, scratch.Bounds(), whiteAt(dab.Alpha*CoreAlpha), image.Point{}, sprite, image.Point{}, draw.Over)

	c := float64(extent) / 2
	for i := 0; i < dab.Speckles; i++ {
		angle := b.rnd.Float64() * math.Pi * 2
		dist := b.rnd.Float64() * dab.Size * speckleSpread
		size := b.rnd.Float64()*dab.Size*speckleSize + 1
		alpha := dab.Alpha * (0.4 + b.rnd.Float64()*0.6)

		b.rast.Reset(extent, extent)
		circle(&b.rast, c+math.Cos(angle)*dist, c+math.Sin(angle)*dist, size/2)
		b.rast.Draw(scratch, scratch.Bounds(), whiteAt(alpha), image.Point{})
	}

	r := image.Rect(ox, oy, ox+extent, oy+extent)
	draw.Draw(dst, r, scratch, image.Point{}, draw.Over)
	b.stats.Stamps++

	return dab, true
}

// Stats returns the stamp counters.
func (b *BrushStampRenderer) Stats() BrushStats {
	return b.stats
}

// blurRadius maps the brush hardness to the edge softness of a dab of the given size.
func (b *BrushStampRenderer) blurRadius(size float64) uint32 {
	soft := (1 - b.cfg.BrushHardness) * size / 4
	if !(soft > 0) {
		return 0
	}
	return uint32(math.Min(math.Round(soft), MaxBlurRadius))
}

// scratchBuffer returns a cleared square buffer of the requested extent.
func (b *BrushStampRenderer) scratchBuffer(extent int) *image.RGBA {
	if b.scratch == nil || b.scratch.Rect.Dx() < extent {
		b.scratch = image.NewRGBA(image.Rect(0, 0, extent, extent))
		return b.scratch
	}
	s := b.scratch.SubImage(image.Rect(0, 0, extent, extent)).(*image.RGBA)
	for y := 0; y < extent; y++ {
		row := s.Pix[y*s.Stride : y*s.Stride+extent*4]
		for i := range row {
			row[i] = 0
		}
	}
	return s
}

// sprite returns the cached coverage image of the dab core.
func (b *BrushStampRenderer) sprite(diameter int, blur uint32, pad int) *image.Alpha {
	key := spriteKey{diameter: diameter, blur: blur}
	if s, ok := b.sprites[key]; ok {
		return s
	}
	extent := diameter + 2*pad
	s := image.NewAlpha(image.Rect(0, 0, extent, extent))

	b.rast.Reset(extent, extent)
	circle(&b.rast, float64(extent)/2, float64(extent)/2, float64(diameter)/2)
	b.rast.Draw(s, s.Bounds(), image.Opaque, image.Point{})
	StackblurAlpha(s, blur)

	b.sprites[key] = s
	return s
}

// circle appends a circular path approximated by four cubic curves.
func circle(z *vector.Rasterizer, cx, cy, r float64) {
	const k = 0.5522847498307936
	o := r * k

	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(cx+r), f(cy))
	z.CubeTo(f(cx+r), f(cy+o), f(cx+o), f(cy+r), f(cx), f(cy+r))
	z.CubeTo(f(cx-o), f(cy+r), f(cx-r), f(cy+o), f(cx-r), f(cy))
	z.CubeTo(f(cx-r), f(cy-o), f(cx-o), f(cy-r), f(cx), f(cy-r))
	z.CubeTo(f(cx+o), f(cy-r), f(cx+r), f(cy-o), f(cx+r), f(cy))
	z.ClosePath()
}

// whiteAt returns a white source with the given opacity.
func whiteAt(alpha float64) *image.Uniform {
	a := uint16(math.Round(math.Max(0, math.Min(1, alpha)) * 0xffff))
	return image.NewUniform(color.NRGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: a})
}
