package graffiti

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGauge_Thresholds(t *testing.T) {
	testCases := []struct {
		pressure float64
		percent  int
		label    string
		want     string
	}{
		{1, 100, "100%", "high"},
		{0.6, 60, "60%", "high"},
		{0.59, 59, "59%", "mid"},
		{0.3, 30, "30%", "mid"},
		{0.299, 30, "30%", "low"},
		{0, 0, "0%", "low"},
		{-2, 0, "0%", "low"},
		{math.NaN(), 100, "100%", "high"},
	}
	colors := map[string]any{"low": gaugeLow, "mid": gaugeMid, "high": gaugeHigh}

	for _, tc := range testCases {
		g := NewGauge(tc.pressure)
		assert.Equal(t, tc.percent, g.Percent, "pressure %v", tc.pressure)
		assert.Equal(t, tc.label, g.Label())
		assert.Equal(t, colors[tc.want], g.Color, "pressure %v", tc.pressure)
	}
}

func TestGauge_ArcCoverage(t *testing.T) {
	img := NewGauge(0.25).Image()
	require.NotNil(t, img)

	size := 2 * (GaugeRadius + gaugeStroke)
	assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds())

	c := float64(size) / 2
	at := func(angle float64) (r, g, b, a uint32) {
		x := int(math.Round(c + GaugeRadius*math.Cos(angle)))
		y := int(math.Round(c + GaugeRadius*math.Sin(angle)))
		return img.At(x, y).RGBA()
	}

	// A quarter of the arc runs from twelve to three o'clock.
	r, g, _, a := at(-math.Pi / 4)
	assert.Greater(t, a, uint32(0))
	assert.Greater(t, r, uint32(0x8000))
	assert.Less(t, g, uint32(0x2000))

	r, _, _, a = at(3 * math.Pi / 4)
	assert.Greater(t, a, uint32(0))
	assert.Less(t, r, uint32(0x2000))

	_, _, _, a = img.At(int(c), int(c)).RGBA()
	assert.Equal(t, uint32(0), a)
}
