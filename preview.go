package graffiti

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/esimov/graffiti/export"
)

// Slider ranges of the control panel.
const (
	panelMinSize     = 10
	panelMaxSize     = 100
	panelMinHardness = 0.1
	panelMaxHardness = 0.9
	panelMinAlpha    = 0.01
	panelMaxAlpha    = 0.3
)

var panelBkgColor = color.NRGBA{A: 0xb0}

// controlPanel holds the brush sliders and the action buttons.
// It keeps the sliders in sync with the session configuration.
type controlPanel struct {
	theme   *material.Theme
	session *Session

	size     widget.Float
	hardness widget.Float
	alpha    widget.Float
	clear    widget.Clickable
	save     widget.Clickable

	saveDir string
	status  string
}

var _ ControlPanelPort = (*controlPanel)(nil)

func newControlPanel(th *material.Theme, s *Session) *controlPanel {
	p := &controlPanel{
		theme:   th,
		session: s,
	}
	p.ConfigChanged(s.Config())

	return p
}

// ConfigChanged updates the sliders to the new configuration.
func (p *controlPanel) ConfigChanged(cfg Config) {
	p.size.Value = float32(cfg.BrushSize)
	p.hardness.Value = float32(cfg.BrushHardness)
	p.alpha.Value = float32(cfg.PaintAlpha)
}

// update applies the widget changes to the session.
func (p *controlPanel) update() {
	if p.size.Changed() {
		p.session.SetBrushSize(float64(p.size.Value))
	}
	if p.hardness.Changed() {
		p.session.SetBrushHardness(float64(p.hardness.Value))
	}
	if p.alpha.Changed() {
		p.session.SetPaintAlpha(float64(p.alpha.Value))
	}
	for p.clear.Clicked() {
		p.session.Clear()
		p.status = ""
	}
	for p.save.Clicked() {
		p.status = p.snapshot()
	}
}

// snapshot saves the current wall as a PNG file.
func (p *controlPanel) snapshot() string {
	frame := p.session.Frame()
	if frame == nil {
		return ""
	}
	name := fmt.Sprintf("graffiti-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(p.saveDir, name)

	err := export.SaveFile(path, frame, export.Meta{SessionID: p.session.ID()})
	if err != nil {
		Logger().Warn("saving snapshot", "path", path, "error", err)
		return "Save failed"
	}
	Logger().Info("snapshot saved", "path", path)
	return "Saved " + name
}

// Layout draws the panel in the top left corner of the window.
func (p *controlPanel) Layout(gtx C) D {
	p.update()

	gtx.Constraints.Min = image.Point{}
	gtx.Constraints.Max.X = gtx.Metric.Dp(unit.Dp(240))

	return layoutMacro(gtx, func(gtx C) D {
		return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				p.slider(fmt.Sprintf("Brush size: %.0f", p.size.Value), &p.size, panelMinSize, panelMaxSize),
				p.slider(fmt.Sprintf("Hardness: %.2f", p.hardness.Value), &p.hardness, panelMinHardness, panelMaxHardness),
				p.slider(fmt.Sprintf("Opacity: %.2f", p.alpha.Value), &p.alpha, panelMinAlpha, panelMaxAlpha),
				layout.Rigid(func(gtx C) D {
					return layout.Flex{Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Rigid(material.Button(p.theme, &p.clear, "Clear").Layout),
						layout.Rigid(material.Button(p.theme, &p.save, "Save").Layout),
					)
				}),
				layout.Rigid(func(gtx C) D {
					if p.status == "" {
						return D{}
					}
					lbl := material.Caption(p.theme, p.status)
					lbl.Color = defaultFillColor
					return layout.Inset{Top: unit.Dp(6)}.Layout(gtx, lbl.Layout)
				}),
			)
		})
	})
}

// slider returns a labelled slider row.
func (p *controlPanel) slider(label string, f *widget.Float, min, max float32) layout.FlexChild {
	return layout.Rigid(func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				lbl := material.Body2(p.theme, label)
				lbl.Color = defaultFillColor
				return lbl.Layout(gtx)
			}),
			layout.Rigid(material.Slider(p.theme, f, min, max).Layout),
		)
	})
}

// layoutMacro records w and draws it over a translucent background sized to its content.
func layoutMacro(gtx C, w layout.Widget) D {
	rec := op.Record(gtx.Ops)
	dims := w(gtx)
	call := rec.Stop()

	stack := clip.Rect{Max: dims.Size}.Push(gtx.Ops)
	paint.Fill(gtx.Ops, panelBkgColor)
	stack.Pop()
	call.Add(gtx.Ops)

	return dims
}
