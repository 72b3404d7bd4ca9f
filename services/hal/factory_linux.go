//go:build linux && !rp2040

package hal

import (
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultChip is the GPIO character device used on Linux robot boards.
const DefaultChip = "gpiochip0"

// DefaultPinFactory opens the default GPIO chip.
func DefaultPinFactory() (PinFactory, error) { return NewChipFactory(DefaultChip) }

// ChipFactory hands out lines of one GPIO character device.
type ChipFactory struct {
	chip *gpiocdev.Chip

	mu   sync.Mutex
	pins map[int]*cdevPin
}

func NewChipFactory(name string) (*ChipFactory, error) {
	c, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, err
	}
	return &ChipFactory{chip: c, pins: map[int]*cdevPin{}}, nil
}

func (f *ChipFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 || n >= f.chip.Lines() {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	if !ok {
		p = &cdevPin{chip: f.chip, n: n}
		f.pins[n] = p
	}
	return p, true
}

// Close releases every requested line and the chip.
func (f *ChipFactory) Close() error {
	f.mu.Lock()
	for _, p := range f.pins {
		p.release()
	}
	f.mu.Unlock()
	return f.chip.Close()
}

// cdevPin requests its line lazily; reconfiguration re-requests it since
// an edge handler can only be attached at request time.
type cdevPin struct {
	chip *gpiocdev.Chip
	n    int

	mu      sync.Mutex
	line    *gpiocdev.Line
	pull    Pull
	output  bool
	handler func()
}

func (p *cdevPin) Number() int { return p.n }

func (p *cdevPin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pull, p.output = pull, false
	return p.request(EdgeNone)
}

func (p *cdevPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
	v := 0
	if initial {
		v = 1
	}
	l, err := p.chip.RequestLine(p.n, gpiocdev.AsOutput(v))
	if err != nil {
		return err
	}
	p.line, p.output = l, true
	return nil
}

func (p *cdevPin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line == nil {
		return
	}
	v := 0
	if level {
		v = 1
	}
	_ = p.line.SetValue(v)
}

func (p *cdevPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line == nil {
		return false
	}
	v, err := p.line.Value()
	return err == nil && v != 0
}

func (p *cdevPin) SetIRQ(edge Edge, handler func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
	return p.request(edge)
}

func (p *cdevPin) ClearIRQ() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = nil
	return p.request(EdgeNone)
}

// request (re)requests the line as an input. Caller holds mu.
func (p *cdevPin) request(edge Edge) error {
	p.release()
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	switch p.pull {
	case PullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case PullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	}
	if h := p.handler; h != nil && edge != EdgeNone {
		switch edge {
		case EdgeRising:
			opts = append(opts, gpiocdev.WithRisingEdge)
		case EdgeFalling:
			opts = append(opts, gpiocdev.WithFallingEdge)
		default:
			opts = append(opts, gpiocdev.WithBothEdges)
		}
		opts = append(opts, gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { h() }))
	}
	l, err := p.chip.RequestLine(p.n, opts...)
	if err != nil {
		return err
	}
	p.line = l
	return nil
}

func (p *cdevPin) release() {
	if p.line != nil {
		_ = p.line.Close()
		p.line = nil
	}
}
