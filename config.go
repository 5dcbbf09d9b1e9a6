package graffiti

import (
	"math"

	"github.com/esimov/graffiti/utils"
)

// Brush parameter limits accepted by the runtime setters.
const (
	MinBrushSize = 1.0
	MaxBrushSize = 200.0

	MinBrushHardness = 0.1
	MaxBrushHardness = 1.0
)

// Config holds the tunable brush parameters and the imagery used by a painting session.
type Config struct {
	BrushSize           float64
	BrushHardness       float64
	PressureSensitivity float64
	MaxPressure         float64
	MinPressure         float64
	PaintAlpha          float64
	SprayDensity        float64

	// OutlineAlpha is the opacity of the artwork outline drawn over the wall.
	OutlineAlpha float64
	// OutlineBlend is an optional imop blend mode used for the outline layer.
	OutlineBlend string
	// ShakeKey is the logical key name which shakes the can.
	ShakeKey string

	WallTexture    string
	ArtworkTexture string
	OutlineTexture string
	CanTexture     string

	SpraySound string
	ShakeSound string
}

// DefaultConfig returns the reference brush configuration.
func DefaultConfig() Config {
	return Config{
		BrushSize:           35,
		BrushHardness:       0.7,
		PressureSensitivity: 0.3,
		MaxPressure:         1.5,
		MinPressure:         0.3,
		PaintAlpha:          0.1,
		SprayDensity:        0.4,
		OutlineAlpha:        0.7,
		ShakeKey:            "Space",
		WallTexture:         "assets/wall.jpg",
		ArtworkTexture:      "assets/graffiti.png",
		OutlineTexture:      "assets/graffiti-outline.png",
		CanTexture:          "assets/spray-can.png",
		SpraySound:          "assets/sounds/spray.mp3",
		ShakeSound:          "assets/sounds/shake.mp3",
	}
}

// sanitize replaces degenerate numeric fields with their default values.
func (c *Config) sanitize() {
	def := DefaultConfig()

	fix := func(v *float64, fallback, lo, hi float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
		}
		*v = utils.Clamp(*v, lo, hi)
	}
	fix(&c.BrushSize, def.BrushSize, MinBrushSize, MaxBrushSize)
	fix(&c.BrushHardness, def.BrushHardness, MinBrushHardness, MaxBrushHardness)
	fix(&c.PressureSensitivity, def.PressureSensitivity, 0, 10)
	fix(&c.MaxPressure, def.MaxPressure, 0, 10)
	fix(&c.MinPressure, def.MinPressure, 0, c.MaxPressure)
	fix(&c.PaintAlpha, def.PaintAlpha, 0, 1)
	fix(&c.SprayDensity, def.SprayDensity, 0, 2)
	fix(&c.OutlineAlpha, def.OutlineAlpha, 0, 1)

	if c.ShakeKey == "" {
		c.ShakeKey = def.ShakeKey
	}
}

// finite reports whether v is neither NaN nor an infinity.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
