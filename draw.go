package graffiti

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/disintegration/imaging"
	"github.com/esimov/graffiti/utils"
)

const (
	// canScale is the display scale of the can texture.
	canScale = 0.15
	// labelOffset is the distance of the pressure label above the can.
	labelOffset = 60
)

// canOffset is the position of the can relative to the pointer.
var canOffset = f32.Pt(-20, 40)

// draw renders the active screen.
func (g *Gui) draw(gtx C, e system.FrameEvent) {
	paint.Fill(gtx.Ops, g.cfg.color.background)
	g.registerInput(gtx)

	switch g.proc.screen {
	case loadingScreen:
		g.drawLoading(gtx)
	case unlockScreen:
		g.drawWall(gtx)
		g.displayMessage(gtx, "Click anywhere to enable the sound")
	case paintScreen:
		g.tick(e.Now, e.Size)
		g.drawWall(gtx)
		g.drawCan(gtx)
		g.panel.Layout(gtx)
	}
	g.win.Invalidate()
}

// drawLoading shows the asset loading progress.
func (g *Gui) drawLoading(gtx C) {
	layout.Center.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Max.X = gtx.Metric.Dp(unit.Dp(320))
		gtx.Constraints.Min.X = gtx.Constraints.Max.X

		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				lbl := material.H5(g.theme, "LOADING...")
				lbl.Color = g.cfg.color.fill
				return lbl.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx C) D {
				return material.ProgressBar(g.theme, float32(g.proc.progress)).Layout(gtx)
			}),
		)
	})
}

// drawWall paints the composed wall at its pixel size.
func (g *Gui) drawWall(gtx C) {
	size := g.proc.size
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	if g.proc.frame == nil || g.proc.frame.Bounds().Size() != size {
		g.proc.frame = image.NewRGBA(image.Rectangle{Max: size})
	}
	g.session.Compose(g.proc.frame)
	drawImage(gtx.Ops, g.proc.frame, f32.Affine2D{})
}

// drawCan renders the brush outline, the spray can and its pressure gauge at the pointer.
func (g *Gui) drawCan(gtx C) {
	pt, ok := g.session.Pointer()
	if !ok {
		return
	}
	pos := layout.FPt(pt)
	g.drawCircle(gtx.Ops, pos, float32(g.session.Config().BrushSize/2), 1)

	origin := pos.Add(canOffset)
	if can := g.canSprite(); can != nil {
		b := can.Bounds()
		anchor := f32.Pt(float32(b.Dx())*0.5, float32(b.Dy())*0.35)
		tr := f32.Affine2D{}.
			Offset(origin.Sub(anchor)).
			Rotate(origin, float32(g.session.Wobble()))
		drawImage(gtx.Ops, can, tr)
	}

	gauge := g.session.Gauge()
	gi := gauge.Image()
	half := float32(gi.Bounds().Dx()) / 2
	drawImage(gtx.Ops, gi, f32.Affine2D{}.Offset(origin.Sub(f32.Pt(half, half))))

	stack := op.Affine(f32.Affine2D{}.Offset(origin.Sub(f32.Pt(half, labelOffset+half/2)))).Push(gtx.Ops)
	lgtx := gtx
	lgtx.Constraints = layout.Exact(image.Pt(int(2*half), int(half)))
	layout.Center.Layout(lgtx, func(gtx C) D {
		lbl := material.Label(g.theme, unit.Sp(24), gauge.Label())
		lbl.Color = gauge.Color
		return lbl.Layout(gtx)
	})
	stack.Pop()
}

// canSprite returns the can texture scaled to its display size.
func (g *Gui) canSprite() image.Image {
	if g.proc.can != nil {
		return g.proc.can
	}
	assets := g.session.Assets()
	if assets == nil || assets.Can == nil {
		return nil
	}
	b := assets.Can.Bounds()
	w := utils.Max(1, int(math.Round(float64(b.Dx())*canScale)))
	g.proc.can = imaging.Resize(assets.Can, w, 0, imaging.Lanczos)

	return g.proc.can
}

// drawCircle draws the outline of a circle centered at c with the provided radius.
func (g *Gui) drawCircle(ops *op.Ops, c f32.Point, radius, thickness float32) {
	if radius <= 0 {
		return
	}
	var (
		orig = c.Sub(f32.Pt(radius, 0))
		foci = c.Sub(orig)
		path clip.Path
	)
	path.Begin(ops)
	path.Move(orig)
	path.Arc(foci, foci, 2*math.Pi)
	path.Close()

	defer clip.Stroke{Path: path.End(), Width: thickness}.Op().Push(ops).Pop()
	paint.ColorOp{Color: setColor(g.cfg.color.fill, 0x99)}.Add(ops)
	paint.PaintOp{}.Add(ops)
}

// displayMessage shows a centered message over a translucent backdrop.
func (g *Gui) displayMessage(gtx C, msg string) {
	paint.Fill(gtx.Ops, color.NRGBA{A: 0xaa})

	layout.Flex{
		Axis:      layout.Horizontal,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
				return layout.Center.Layout(gtx, func(gtx C) D {
					lbl := material.Label(g.theme, unit.Sp(32), msg)
					lbl.Color = g.cfg.color.fill
					return lbl.Layout(gtx)
				})
			})
		}),
	)
}

// drawImage paints img transformed by tr.
func drawImage(ops *op.Ops, img image.Image, tr f32.Affine2D) {
	defer op.Affine(tr).Push(ops).Pop()

	paint.NewImageOp(img).Add(ops)
	defer clip.Rect{Max: img.Bounds().Size()}.Push(ops).Pop()
	paint.PaintOp{}.Add(ops)
}

// setColor converts c to a gio color with the provided alpha.
func setColor(c color.Color, alpha uint8) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = alpha
	return n
}

// getRatio returns the scale factor fitting w and h within the maximum screen size.
func getRatio(w, h float64) float64 {
	r := 1.0
	if w > maxScreenX || h > maxScreenY {
		wr := maxScreenX / w
		hr := maxScreenY / h

		r = utils.Min(wr, hr)
	}
	return r
}
