package graffiti

import (
	"math"
	"time"

	"github.com/esimov/graffiti/utils"
)

const (
	// MinMovement is the distance a pointer has to travel before a new segment is sampled.
	MinMovement = 2.0
	// StampSpacing is the divisor used to derive the interpolation step count from the segment length.
	StampSpacing = 3.0

	defaultSampleInterval = 16 * time.Millisecond
	pressureRetention     = 0.7
)

// StrokePoint is a sampled or interpolated location along a drag gesture.
type StrokePoint struct {
	X, Y     float64
	Pressure float64
	Time     time.Duration
}

// StrokeSampler converts raw pointer samples into evenly spaced stamp positions
// carrying a speed derived pressure.
type StrokeSampler struct {
	cfg      *Config
	last     *StrokePoint
	pressure float64
}

// NewStrokeSampler creates a sampler reading its tuning values from cfg.
func NewStrokeSampler(cfg *Config) *StrokeSampler {
	return &StrokeSampler{
		cfg:      cfg,
		pressure: 1,
	}
}

// Begin starts a new stroke at (x, y) and returns the single stamp placed there.
func (s *StrokeSampler) Begin(x, y float64, t time.Duration) []StrokePoint {
	s.pressure = 1
	s.last = &StrokePoint{X: x, Y: y, Pressure: s.pressure, Time: t}

	return []StrokePoint{*s.last}
}

// Move samples a new pointer position. Positions within MinMovement of the previous one are discarded.
// Otherwise the segment between both points is interpolated into max(2, floor(d/3))+1 stamps.
func (s *StrokeSampler) Move(x, y float64, t time.Duration) []StrokePoint {
	if s.last == nil {
		s.pressure = 1
		s.last = &StrokePoint{X: x, Y: y, Pressure: s.pressure, Time: t}
		return nil
	}

	from := *s.last
	dist := math.Hypot(x-from.X, y-from.Y)
	if !(dist > MinMovement) {
		return nil
	}
	s.updatePressure(dist, t-from.Time)

	steps := utils.Max(2, int(math.Floor(dist/StampSpacing)))
	points := make([]StrokePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		k := float64(i) / float64(steps)
		points = append(points, StrokePoint{
			X:        from.X + (x-from.X)*k,
			Y:        from.Y + (y-from.Y)*k,
			Pressure: s.pressure,
			Time:     from.Time + time.Duration(float64(t-from.Time)*k),
		})
	}
	s.last = &StrokePoint{X: x, Y: y, Pressure: s.pressure, Time: t}

	return points
}

// updatePressure low-pass filters the pressure derived from the pointer speed.
func (s *StrokeSampler) updatePressure(dist float64, elapsed time.Duration) {
	if elapsed <= 0 {
		elapsed = defaultSampleInterval
	}
	ms := utils.Max(float64(elapsed)/float64(time.Millisecond), 1)
	speed := dist / ms

	target := utils.Clamp(
		s.cfg.MaxPressure-speed*s.cfg.PressureSensitivity,
		s.cfg.MinPressure,
		s.cfg.MaxPressure,
	)
	if !finite(target) {
		target = 1
	}

	s.pressure = s.pressure*pressureRetention + target*(1-pressureRetention)
	if !finite(s.pressure) {
		s.pressure = 1
	}
}

// End terminates the current stroke.
func (s *StrokeSampler) End() {
	s.last = nil
}

// Last returns the most recent stroke point, if a stroke is in progress.
func (s *StrokeSampler) Last() (StrokePoint, bool) {
	if s.last == nil {
		return StrokePoint{}, false
	}
	return *s.last, true
}

// Pressure returns the smoothed stroke pressure.
func (s *StrokeSampler) Pressure() float64 {
	return s.pressure
}
