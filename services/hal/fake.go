package hal

import "sync"

// FakePin is an in-memory Pin/IRQPin used by the host simulator and tests.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	output  bool
	pull    Pull
	irqEdge Edge
	irqFunc func()
	writes  int
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	p.output = false
	p.pull = pull
	// An idle pulled-up input reads high.
	if pull == PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.output = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

// Set drives the level and fires a matching IRQ handler outside the lock.
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	p.writes++
	var fire func()
	if p.irqFunc != nil && irqWanted(p.irqEdge, old, level) {
		fire = p.irqFunc
	}
	p.mu.Unlock()
	if fire != nil {
		fire()
	}
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge, p.irqFunc = edge, handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge, p.irqFunc = EdgeNone, nil
	p.mu.Unlock()
	return nil
}

// Pull reports the last configured pull mode.
func (p *FakePin) Pull() Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// IsOutput reports whether the pin was last configured as an output.
func (p *FakePin) IsOutput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

// Writes counts Set calls.
func (p *FakePin) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func irqWanted(cfg Edge, old, new bool) bool {
	switch {
	case !old && new:
		return cfg == EdgeRising || cfg == EdgeBoth
	case old && !new:
		return cfg == EdgeFalling || cfg == EdgeBoth
	}
	return false
}

// FakeFactory returns stable *FakePin instances per number.
type FakeFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func NewFakeFactory() *FakeFactory { return &FakeFactory{pins: map[int]*FakePin{}} }

func (f *FakeFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 {
		return nil, false
	}
	return f.Fake(n), true
}

// Fake exposes the underlying *FakePin, creating it on first use.
func (f *FakeFactory) Fake(n int) *FakePin {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = map[int]*FakePin{}
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p
}
