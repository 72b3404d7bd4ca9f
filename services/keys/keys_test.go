package keys

import (
	"context"
	"sync"
	"testing"
	"time"

	"robocore-go/services/event"
	"robocore-go/services/hal"
)

type tagLog struct {
	mu  sync.Mutex
	got []event.Tag
}

func (l *tagLog) Post(t event.Tag) {
	l.mu.Lock()
	l.got = append(l.got, t)
	l.mu.Unlock()
}

func (l *tagLog) snapshot() []event.Tag {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Tag(nil), l.got...)
}

func newScanner(t *testing.T, n int) (*Scanner, []*hal.FakePin, *tagLog) {
	t.Helper()
	var pins []*hal.FakePin
	var ks []Key
	for i := 0; i < n; i++ {
		p := hal.NewFakePin(i)
		pins = append(pins, p)
		ks = append(ks, Key{Pin: p, ActiveLow: true})
	}
	log := &tagLog{}
	s, err := New(log, ks, Config{Debounce: 20 * time.Millisecond, LongPress: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return s, pins, log
}

func TestActiveLowConfiguresPullUp(t *testing.T) {
	_, pins, _ := newScanner(t, 2)
	for _, p := range pins {
		if p.Pull() != hal.PullUp || !p.Get() {
			t.Fatal("active-low key should idle high with pull-up")
		}
	}
}

func TestPressIsDebounced(t *testing.T) {
	s, pins, log := newScanner(t, 3)
	t0 := time.Unix(100, 0)

	pins[1].Set(false) // SW2 pressed
	s.Scan(t0)
	if len(log.snapshot()) != 0 {
		t.Fatal("posted before debounce elapsed")
	}
	pins[1].Set(true) // bounce
	s.Scan(t0.Add(5 * time.Millisecond))
	pins[1].Set(false)
	s.Scan(t0.Add(10 * time.Millisecond))
	s.Scan(t0.Add(25 * time.Millisecond))
	if len(log.snapshot()) != 0 {
		t.Fatal("bounce restarted debounce; nothing should be posted yet")
	}
	s.Scan(t0.Add(30 * time.Millisecond))
	got := log.snapshot()
	if len(got) != 1 || got[0] != event.Key2Pressed {
		t.Fatalf("got %v, want [key2_pressed]", got)
	}

	pins[1].Set(true)
	s.Scan(t0.Add(100 * time.Millisecond))
	s.Scan(t0.Add(130 * time.Millisecond))
	got = log.snapshot()
	if len(got) != 2 || got[1] != event.Key2Released {
		t.Fatalf("got %v, want release", got)
	}
}

func TestLongPressPostedOnce(t *testing.T) {
	s, pins, log := newScanner(t, 1)
	t0 := time.Unix(100, 0)
	pins[0].Set(false)
	s.Scan(t0)
	s.Scan(t0.Add(20 * time.Millisecond))
	s.Scan(t0.Add(1100 * time.Millisecond))
	s.Scan(t0.Add(2100 * time.Millisecond))

	got := log.snapshot()
	if len(got) != 2 || got[0] != event.Key1Pressed || got[1] != event.Key1LongPressed {
		t.Fatalf("got %v", got)
	}
}

func TestKeyHeldAtBootIsNotAPress(t *testing.T) {
	p := hal.NewFakePin(0)
	p.ConfigureOutput(true) // active-high key already held
	log := &tagLog{}
	s, err := New(log, []Key{{Pin: p}}, Config{LongPress: -1})
	if err != nil {
		t.Fatal(err)
	}
	s.Scan(time.Unix(0, 0))
	s.Scan(time.Unix(1, 0))
	if got := log.snapshot(); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
	p.Set(false)
	s.Scan(time.Unix(2, 0))
	s.Scan(time.Unix(3, 0))
	if got := log.snapshot(); len(got) != 0 {
		t.Fatalf("release of a boot-held key posted %v", got)
	}

	// The next full press and release is reported normally.
	p.Set(true)
	s.Scan(time.Unix(4, 0))
	s.Scan(time.Unix(5, 0))
	p.Set(false)
	s.Scan(time.Unix(6, 0))
	s.Scan(time.Unix(7, 0))
	got := log.snapshot()
	if len(got) != 2 || got[0] != event.Key1Pressed || got[1] != event.Key1Released {
		t.Fatalf("got %v", got)
	}
}

func TestTooManyKeys(t *testing.T) {
	ks := make([]Key, event.MaxKeys+1)
	for i := range ks {
		ks[i] = Key{Pin: hal.NewFakePin(i)}
	}
	if _, err := New(&tagLog{}, ks, Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestIRQOnlySignalsAndCoalesces(t *testing.T) {
	s, pins, log := newScanner(t, 1)
	armed, err := s.EnableIRQ()
	if err != nil || armed != 1 {
		t.Fatalf("EnableIRQ = %d %v", armed, err)
	}
	pins[0].Set(false)
	pins[0].Set(true)
	pins[0].Set(false)
	if len(s.wake) != 1 {
		t.Fatalf("pending wakes = %d, want 1", len(s.wake))
	}
	if s.Coalesced() != 2 {
		t.Fatalf("Coalesced = %d, want 2", s.Coalesced())
	}
	if len(log.snapshot()) != 0 {
		t.Fatal("the interrupt path must not post")
	}
}

func TestRunPostsPress(t *testing.T) {
	s, pins, log := newScanner(t, 1)
	s.cfg.Debounce = time.Nanosecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx, time.Millisecond)

	pins[0].Set(false)
	deadline := time.After(2 * time.Second)
	for {
		if got := log.snapshot(); len(got) > 0 {
			if got[0] != event.Key1Pressed {
				t.Fatalf("got %v", got)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("Run never posted the press")
		case <-time.After(time.Millisecond):
		}
	}
}
