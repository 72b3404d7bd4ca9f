// Package led owns the LED output lines. Every write to a physical line goes
// through its Line, so concurrent writers are serialised.
package led

import (
	"sync"

	"robocore-go/services/hal"
)

// Line is one LED output with its own lock.
type Line struct {
	name      string
	pin       hal.Pin
	activeLow bool

	mu sync.Mutex
	on bool
}

// New configures pin as an output in the off state.
func New(name string, pin hal.Pin, activeLow bool) (*Line, error) {
	l := &Line{name: name, pin: pin, activeLow: activeLow}
	if err := pin.ConfigureOutput(l.level(false)); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Line) Name() string { return l.name }

func (l *Line) On()  { l.Set(true) }
func (l *Line) Off() { l.Set(false) }

func (l *Line) Set(on bool) {
	l.mu.Lock()
	l.on = on
	l.pin.Set(l.level(on))
	l.mu.Unlock()
}

// Toggle inverts the line and returns the new logical state.
func (l *Line) Toggle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = !l.on
	l.pin.Set(l.level(l.on))
	return l.on
}

// Get returns the logical (not electrical) state.
func (l *Line) Get() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

func (l *Line) level(on bool) bool {
	if l.activeLow {
		return !on
	}
	return on
}
