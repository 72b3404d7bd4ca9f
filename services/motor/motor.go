// Package motor holds the two drive motor handles. Only polarity and the
// signed speed request live here; the control law is external.
package motor

import (
	"sync"

	"robocore-go/services/hal"
	"robocore-go/x/mathx"
)

type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// DutyTop is the full-scale value passed to a Duty output.
const DutyTop = 0xFFFF

// Duty is a PWM-like output taking 0..DutyTop.
type Duty interface {
	SetDuty(d uint16)
}

// Motor drives one wheel through a direction pin and an optional duty output.
type Motor struct {
	side Side
	dir  hal.Pin
	duty Duty

	mu       sync.Mutex
	inverted bool
	speed    int8
}

func New(side Side, dir hal.Pin, duty Duty) (*Motor, error) {
	if err := dir.ConfigureOutput(false); err != nil {
		return nil, err
	}
	return &Motor{side: side, dir: dir, duty: duty}, nil
}

func (m *Motor) Side() Side { return m.side }

// Invert sets the polarity correction for this unit's wiring.
func (m *Motor) Invert(on bool) {
	m.mu.Lock()
	m.inverted = on
	m.apply()
	m.mu.Unlock()
}

func (m *Motor) Inverted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inverted
}

// SetSpeed requests a signed speed in percent, clamped to [-100, 100].
func (m *Motor) SetSpeed(pct int) {
	m.mu.Lock()
	m.speed = int8(mathx.Clamp(pct, -100, 100))
	m.apply()
	m.mu.Unlock()
}

func (m *Motor) Speed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.speed)
}

// apply writes direction and duty. Caller holds mu.
func (m *Motor) apply() {
	forward := m.speed >= 0
	if m.inverted {
		forward = !forward
	}
	m.dir.Set(!forward)
	if m.duty != nil {
		m.duty.SetDuty(uint16(mathx.Scale(int(mathx.Abs(m.speed)), 100, DutyTop)))
	}
}

// Pair is the left/right motor set adjusted at boot.
type Pair struct {
	Left, Right *Motor
}

func (p *Pair) Motor(s Side) *Motor {
	if s == Right {
		return p.Right
	}
	return p.Left
}

// Invert implements identity.MotorSet.
func (p *Pair) Invert(s Side, on bool) {
	if m := p.Motor(s); m != nil {
		m.Invert(on)
	}
}
