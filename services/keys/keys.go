// Package keys scans the push buttons and posts key events.
//
// Scanning is polled and debounced. On pins that support interrupts an
// edge only wakes the scanner early; the level is always re-read and
// debounced by Scan, so a bouncing contact cannot post twice.
package keys

import (
	"context"
	"sync/atomic"
	"time"

	"robocore-go/errcode"
	"robocore-go/services/event"
	"robocore-go/services/hal"
	"robocore-go/x/logx"
)

// Poster receives key tags. *event.Dispatcher satisfies it.
type Poster interface {
	Post(event.Tag)
}

// Key is one button input. Index 0 of the Scanner's keys is SW1.
type Key struct {
	Pin       hal.Pin
	ActiveLow bool // pressed pulls the line to ground
}

type Config struct {
	Debounce  time.Duration // default 20ms
	LongPress time.Duration // default 1s; negative disables long-press
}

type keyState struct {
	Key
	stable    bool // debounced pressed state
	seen      bool // a debounced press was posted; gates the release
	candidate bool
	since     time.Time
	pressedAt time.Time
	longSent  bool
}

type Scanner struct {
	post  Poster
	cfg   Config
	keys  []keyState
	wake  chan struct{}
	drops atomic.Uint32
}

// New configures the key pins as inputs and snapshots their state, so a
// key held at boot posts neither a press nor its release.
func New(post Poster, keys []Key, cfg Config) (*Scanner, error) {
	if len(keys) > event.MaxKeys {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "keys.new", Msg: "too many keys"}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 20 * time.Millisecond
	}
	if cfg.LongPress == 0 {
		cfg.LongPress = time.Second
	}
	s := &Scanner{post: post, cfg: cfg, wake: make(chan struct{}, 1)}
	for i, k := range keys {
		if k.Pin == nil {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "keys.new"}
		}
		pull := hal.PullDown
		if k.ActiveLow {
			pull = hal.PullUp
		}
		if err := k.Pin.ConfigureInput(pull); err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: "keys.new", Err: err}
		}
		st := keyState{Key: k}
		st.stable = st.read()
		st.candidate = st.stable
		st.longSent = st.stable
		s.keys = append(s.keys, st)
		logx.Debug("keys", "key configured", "key", i+1, "pin", k.Pin.Number(), "pull", pull.String())
	}
	return s, nil
}

func (k *keyState) read() bool { return k.Pin.Get() != k.ActiveLow }

// Len returns the number of scanned keys.
func (s *Scanner) Len() int { return len(s.keys) }

// Scan samples every key once and posts events for debounced changes.
// It never blocks. Only one goroutine may call Scan.
func (s *Scanner) Scan(now time.Time) int {
	posted := 0
	for i := range s.keys {
		k := &s.keys[i]
		n := i + 1
		raw := k.read()
		if raw != k.candidate {
			k.candidate = raw
			k.since = now
		}
		if k.candidate != k.stable && now.Sub(k.since) >= s.cfg.Debounce {
			k.stable = k.candidate
			if k.stable {
				k.pressedAt = now
				k.longSent = false
				k.seen = true
				s.emit(event.KeyPressed(n))
				posted++
			} else if k.seen {
				k.seen = false
				s.emit(event.KeyReleased(n))
				posted++
			}
		}
		if k.stable && !k.longSent && s.cfg.LongPress > 0 && now.Sub(k.pressedAt) >= s.cfg.LongPress {
			k.longSent = true
			s.emit(event.KeyLongPressed(n))
			posted++
		}
	}
	return posted
}

func (s *Scanner) emit(t event.Tag, ok bool) {
	if ok {
		s.post.Post(t)
	}
}

// EnableIRQ arms edge interrupts on every key pin that supports them. The
// handler only signals the scanner; it never blocks.
func (s *Scanner) EnableIRQ() (armed int, err error) {
	for _, k := range s.keys {
		ip, ok := k.Pin.(hal.IRQPin)
		if !ok {
			continue
		}
		if err := ip.SetIRQ(hal.EdgeBoth, s.signal); err != nil {
			return armed, &errcode.E{C: errcode.Error, Op: "keys.irq", Err: err}
		}
		armed++
	}
	return armed, nil
}

func (s *Scanner) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
		s.drops.Add(1) // a wake is already pending
	}
}

// Coalesced reports how many interrupt wakes were merged into a pending one.
func (s *Scanner) Coalesced() uint32 { return s.drops.Load() }

// Run scans every period, and early on an interrupt wake, until ctx ends.
func (s *Scanner) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 10 * time.Millisecond
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Scan(now)
		case <-s.wake:
			s.Scan(time.Now())
		}
	}
}
