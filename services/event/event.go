// Package event holds the de-duplicated pending set that decouples stimulus
// producers (key scanning, boot, timers) from the application handler.
package event

import "sync/atomic"

// Tag names a discrete occurrence. The domain is closed and small enough to
// fit one 64-bit word.
type Tag uint8

// MaxKeys is the number of key slots the tag domain reserves.
const MaxKeys = 7

const (
	Startup Tag = iota
	LedOff
	LedHeartbeat

	Key1Pressed
	Key2Pressed
	Key3Pressed
	Key4Pressed
	Key5Pressed
	Key6Pressed
	Key7Pressed

	Key1Released
	Key2Released
	Key3Released
	Key4Released
	Key5Released
	Key6Released
	Key7Released

	Key1LongPressed
	Key2LongPressed
	Key3LongPressed
	Key4LongPressed
	Key5LongPressed
	Key6LongPressed
	Key7LongPressed

	NumTags
)

// The bitset below assumes the domain fits one word.
var _ [64 - int(NumTags)]struct{}

var tagNames = [NumTags]string{
	"startup", "led_off", "led_heartbeat",
	"key1_pressed", "key2_pressed", "key3_pressed", "key4_pressed", "key5_pressed", "key6_pressed", "key7_pressed",
	"key1_released", "key2_released", "key3_released", "key4_released", "key5_released", "key6_released", "key7_released",
	"key1_long", "key2_long", "key3_long", "key4_long", "key5_long", "key6_long", "key7_long",
}

func (t Tag) String() string {
	if t < NumTags {
		return tagNames[t]
	}
	return "unknown"
}

// KeyPressed maps a 1-based key index to its pressed tag.
func KeyPressed(n int) (Tag, bool) { return keyTag(Key1Pressed, n) }

// KeyReleased maps a 1-based key index to its released tag.
func KeyReleased(n int) (Tag, bool) { return keyTag(Key1Released, n) }

// KeyLongPressed maps a 1-based key index to its long-press tag.
func KeyLongPressed(n int) (Tag, bool) { return keyTag(Key1LongPressed, n) }

func keyTag(base Tag, n int) (Tag, bool) {
	if n < 1 || n > MaxKeys {
		return 0, false
	}
	return base + Tag(n-1), true
}

// Key returns the 1-based key index a key tag refers to, or 0.
func (t Tag) Key() int {
	switch {
	case t >= Key1Pressed && t <= Key7Pressed:
		return int(t-Key1Pressed) + 1
	case t >= Key1Released && t <= Key7Released:
		return int(t-Key1Released) + 1
	case t >= Key1LongPressed && t <= Key7LongPressed:
		return int(t-Key1LongPressed) + 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// Handler consumes one dispatched tag.
type Handler interface {
	Handle(Tag)
}

type HandlerFunc func(Tag)

func (f HandlerFunc) Handle(t Tag) { f(t) }

// Table maps every tag to its behaviour. A nil slot is the no-op.
type Table [NumTags]func(Tag)

func (tb *Table) Handle(t Tag) {
	if t >= NumTags {
		return
	}
	if fn := tb[t]; fn != nil {
		fn(t)
	}
}

// -----------------------------------------------------------------------------
// Dispatcher
// -----------------------------------------------------------------------------

// Dispatcher is the pending set. Post is safe from any goroutine or
// interrupt context; Drain must have a single caller at a time.
type Dispatcher struct {
	pending atomic.Uint64
}

func New() *Dispatcher { return &Dispatcher{} }

// Post marks t pending. Posting an already pending tag has no effect.
func (d *Dispatcher) Post(t Tag) {
	if t >= NumTags {
		return
	}
	bit := uint64(1) << t
	for {
		old := d.pending.Load()
		if old&bit != 0 || d.pending.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// Clear removes t from the pending set and reports whether it was pending.
func (d *Dispatcher) Clear(t Tag) bool {
	if t >= NumTags {
		return false
	}
	bit := uint64(1) << t
	for {
		old := d.pending.Load()
		if old&bit == 0 {
			return false
		}
		if d.pending.CompareAndSwap(old, old&^bit) {
			return true
		}
	}
}

func (d *Dispatcher) Pending(t Tag) bool {
	return t < NumTags && d.pending.Load()&(uint64(1)<<t) != 0
}

func (d *Dispatcher) Empty() bool { return d.pending.Load() == 0 }

// Count returns the number of pending tags.
func (d *Dispatcher) Count() int {
	n := 0
	for v := d.pending.Load(); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Drain delivers every tag pending at entry, lowest first. Each tag is
// removed before its handler runs. Tags posted while the pass is running
// and not part of the entry snapshot wait for the next Drain.
func (d *Dispatcher) Drain(h Handler) int {
	snap := d.pending.Load()
	n := 0
	for t := Tag(0); t < NumTags && snap != 0; t++ {
		bit := uint64(1) << t
		if snap&bit == 0 {
			continue
		}
		snap &^= bit
		if !d.Clear(t) {
			continue
		}
		h.Handle(t)
		n++
	}
	return n
}

// Next delivers only the lowest pending tag and reports whether one ran.
func (d *Dispatcher) Next(h Handler) bool {
	snap := d.pending.Load()
	for t := Tag(0); t < NumTags && snap != 0; t++ {
		if snap&(uint64(1)<<t) == 0 {
			continue
		}
		if d.Clear(t) {
			h.Handle(t)
			return true
		}
		snap = d.pending.Load()
	}
	return false
}
