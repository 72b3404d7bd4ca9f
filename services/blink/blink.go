// Package blink runs the LED blink activity started from the shell.
//
// At most one blink task exists at a time. The Manager keeps the handle of
// the running task and, depending on Policy, either replaces it or rejects a
// new request while it runs.
package blink

import (
	"context"
	"sync"
	"time"

	"robocore-go/errcode"
	"robocore-go/services/fault"
	"robocore-go/x/logx"
)

// Toggler is an output line owned elsewhere (led.Line).
type Toggler interface {
	Toggle() bool
}

// Clock is the only suspension primitive a blink task uses.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Policy decides what a Start does while a task is running.
type Policy uint8

const (
	PolicyReplace Policy = iota // cancel the running task, then start
	PolicyReject                // return errcode.Busy
)

// ParsePolicy maps the config spelling to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "replace":
		return PolicyReplace, true
	case "reject":
		return PolicyReject, true
	}
	return PolicyReplace, false
}

// Config for a Manager. Zero values select the defaults.
type Config struct {
	Policy Policy
	Clock  Clock
	// Spawn starts f concurrently. A failure is fatal.
	Spawn func(f func()) error
}

type task struct {
	id     uint32
	period int
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is the blink task registry.
type Manager struct {
	a, b  Toggler
	cfg   Config
	wg    sync.WaitGroup
	mu    sync.Mutex
	cur   *task
	runID uint32
}

func NewManager(a, b Toggler, cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.Spawn == nil {
		cfg.Spawn = func(f func()) error { go f(); return nil }
	}
	return &Manager{a: a, b: b, cfg: cfg}
}

// Start launches a blink task with the given full period in milliseconds.
// Line A toggles every period starting at once; line B toggles half a
// period later. Invalid periods leave everything untouched.
func (m *Manager) Start(periodMs int) error {
	if periodMs <= 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "blink.start", Msg: "period must be positive"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur != nil {
		if m.cfg.Policy == PolicyReject {
			return errcode.Busy
		}
		m.stopLocked()
	}

	m.runID++
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{id: m.runID, period: periodMs, cancel: cancel, done: make(chan struct{})}

	m.wg.Add(1)
	if err := m.cfg.Spawn(func() { m.run(ctx, t) }); err != nil {
		m.wg.Done()
		cancel()
		return fault.New(errcode.TaskAllocFailed, "blink.start", err)
	}
	m.cur = t
	logx.Info("blink", "task started", "period_ms", periodMs, "id", int(t.id))
	return nil
}

// Stop cancels the running task, if any, and waits for it to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
}

func (m *Manager) stopLocked() {
	if m.cur == nil {
		return
	}
	m.cur.cancel()
	<-m.cur.done
	logx.Debug("blink", "task stopped", "id", int(m.cur.id))
	m.cur = nil
}

// Active returns the period of the running task.
func (m *Manager) Active() (periodMs int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return 0, false
	}
	return m.cur.period, true
}

// Wait blocks until every task has exited. Call after Stop.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) run(ctx context.Context, t *task) {
	defer m.wg.Done()
	defer close(t.done)

	half := time.Duration(t.period) * time.Millisecond / 2
	lineA := true
	for {
		if lineA {
			m.a.Toggle()
		} else {
			m.b.Toggle()
		}
		lineA = !lineA
		select {
		case <-ctx.Done():
			return
		case <-m.cfg.Clock.After(half):
		}
	}
}
