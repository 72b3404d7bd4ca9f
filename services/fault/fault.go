// Package fault models the terminal fault state entered on unrecoverable
// boot or allocation failures.
package fault

import (
	"errors"
	"sync"

	"robocore-go/errcode"
	"robocore-go/x/logx"
)

// Error is a fatal condition. It is a distinct type from ordinary errcode
// results so callers can route it to a Latch instead of handling it.
type Error struct {
	C   errcode.Code
	Op  string
	Err error
}

func New(c errcode.Code, op string, err error) *Error {
	return &Error{C: c, Op: op, Err: err}
}

func (e *Error) Error() string {
	s := "fatal: " + e.Op + ": " + string(e.C)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *Error) Unwrap() error      { return e.Err }
func (e *Error) Code() errcode.Code { return e.C }

// As reports whether err carries a fatal fault and returns it.
func As(err error) (*Error, bool) {
	var f *Error
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Latch records the first fault and enters the terminal state.
// Halt is invoked once after the state is recorded; on hardware it never
// returns. A nil Halt leaves the latch observable for tests.
type Latch struct {
	Halt func(*Error)

	once sync.Once
	mu   sync.Mutex
	err  *Error
	done chan struct{}
}

func NewLatch(halt func(*Error)) *Latch {
	return &Latch{Halt: halt, done: make(chan struct{})}
}

// Trip enters the fault state. Only the first call has an effect.
func (l *Latch) Trip(f *Error) {
	if f == nil {
		return
	}
	l.once.Do(func() {
		l.mu.Lock()
		l.err = f
		l.mu.Unlock()
		logx.Error("fault", "entering terminal fault state", f)
		close(l.done)
		if l.Halt != nil {
			l.Halt(f)
		}
	})
}

// Tripped returns the recorded fault, if any.
func (l *Latch) Tripped() (*Error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err, l.err != nil
}

// Done is closed once the latch trips.
func (l *Latch) Done() <-chan struct{} { return l.done }

// Forever blocks the calling goroutine permanently.
// It is the hardware Halt: no watchdog recovery is assumed.
func Forever(*Error) {
	select {}
}
