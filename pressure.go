package graffiti

import (
	"math"

	"github.com/esimov/graffiti/utils"
)

// Spray can tuning constants. Rates are expressed per second.
const (
	ShakeDuration = 2.0
	DrainRate     = 0.02
	RefillRate    = 0.8

	// DefaultDelta substitutes invalid frame deltas.
	DefaultDelta = 0.016
	// MaxDelta caps the simulated time of a single tick.
	MaxDelta = 0.1
)

// PressureState is a snapshot of the spray can.
type PressureState struct {
	Pressure     float64
	Shaking      bool
	Spraying     bool
	ShakeElapsed float64
}

// PressureModel simulates the can pressure which drains while spraying and refills while shaking.
type PressureModel struct {
	state PressureState
}

// NewPressureModel returns a full can.
func NewPressureModel() *PressureModel {
	return &PressureModel{
		state: PressureState{Pressure: 1},
	}
}

// sanitizeDelta replaces non-finite or non-positive deltas with DefaultDelta and caps the rest to MaxDelta.
func sanitizeDelta(dt float64) float64 {
	if !finite(dt) || dt <= 0 {
		return DefaultDelta
	}
	return utils.Min(dt, MaxDelta)
}

// Update advances the can simulation by dt seconds.
func (m *PressureModel) Update(dt float64) {
	dt = sanitizeDelta(dt)
	if !finite(m.state.Pressure) {
		m.state.Pressure = 1
	}

	if m.state.Spraying && m.state.Pressure > 0 {
		m.state.Pressure = utils.Max(0, m.state.Pressure-DrainRate*dt)
		if m.state.Pressure <= 0 {
			m.state.Spraying = false
		}
	}

	if m.state.Shaking {
		m.state.ShakeElapsed += dt
		m.state.Pressure = utils.Min(1, m.state.Pressure+RefillRate*dt)
		if m.state.ShakeElapsed >= ShakeDuration {
			m.StopShaking()
		}
	}
	m.state.Pressure = utils.Clamp(m.state.Pressure, 0, 1)
}

// StartSpraying opens the valve. It is a no-op on an empty can.
func (m *PressureModel) StartSpraying() {
	if m.Pressure() > 0 {
		m.state.Spraying = true
	}
}

// StopSpraying closes the valve.
func (m *PressureModel) StopSpraying() {
	m.state.Spraying = false
}

// StartShaking starts a shake cycle. Calling it during a cycle keeps the elapsed time.
func (m *PressureModel) StartShaking() {
	if m.state.Shaking {
		return
	}
	m.state.Shaking = true
	m.state.ShakeElapsed = 0
}

// StopShaking ends the current shake cycle.
func (m *PressureModel) StopShaking() {
	m.state.Shaking = false
}

// Wobble returns the can rotation in radians while it is being shaken.
func (m *PressureModel) Wobble() float64 {
	if !m.state.Shaking {
		return 0
	}
	return math.Sin(m.state.ShakeElapsed*20) * 0.3
}

// CanPaint reports whether stamps may be applied.
func (m *PressureModel) CanPaint() bool {
	return m.Pressure() > 0 && !m.state.Shaking
}

// Pressure returns the remaining can pressure in the [0, 1] range.
func (m *PressureModel) Pressure() float64 {
	if !finite(m.state.Pressure) {
		m.state.Pressure = 1
	}
	return m.state.Pressure
}

// Refill fills up the can.
func (m *PressureModel) Refill() {
	m.state.Pressure = 1
}

// State returns a copy of the current can state.
func (m *PressureModel) State() PressureState {
	m.Pressure()
	return m.state
}
