package graffiti

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/graffiti/utils"
	"github.com/gogpu/gg"
)

const (
	// GaugeRadius is the radius of the pressure arc.
	GaugeRadius = 45
	gaugeStroke = 4
)

var (
	gaugeLow  = color.NRGBA{R: 0xff, A: 0xff}
	gaugeMid  = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
	gaugeHigh = color.NRGBA{G: 0xff, A: 0xff}
)

// Gauge describes the can pressure indicator.
type Gauge struct {
	Pressure float64
	Percent  int
	Color    color.NRGBA
}

// NewGauge builds the indicator for the given can pressure.
func NewGauge(pressure float64) Gauge {
	if !finite(pressure) {
		pressure = 1
	}
	pressure = utils.Clamp(pressure, 0, 1)

	c := gaugeHigh
	switch {
	case pressure < 0.3:
		c = gaugeLow
	case pressure < 0.6:
		c = gaugeMid
	}
	return Gauge{
		Pressure: pressure,
		Percent:  int(math.Round(pressure * 100)),
		Color:    c,
	}
}

// Label returns the percentage text shown next to the arc.
func (g Gauge) Label() string {
	return utils.FormatPercent(g.Percent)
}

// Image draws the pressure arc starting at twelve o'clock and running clockwise.
func (g Gauge) Image() image.Image {
	size := 2 * (GaugeRadius + gaugeStroke)
	c := float64(size) / 2

	dc := gg.NewContext(size, size)
	defer dc.Close()

	dc.SetLineWidth(gaugeStroke)
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawCircle(c, c, GaugeRadius)
	if err := dc.Stroke(); err != nil {
		Logger().Debug("gauge track", "error", err)
	}

	if g.Pressure > 0 {
		start := -math.Pi / 2
		dc.SetColor(g.Color)
		dc.DrawArc(c, c, GaugeRadius, start, start+2*math.Pi*g.Pressure)
		if err := dc.Stroke(); err != nil {
			Logger().Debug("gauge arc", "error", err)
		}
	}
	return dc.Image()
}
