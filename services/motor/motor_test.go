package motor

import (
	"testing"

	"robocore-go/services/hal"
)

type fakeDuty struct{ last uint16 }

func (f *fakeDuty) SetDuty(d uint16) { f.last = d }

func TestInvertFlipsDirection(t *testing.T) {
	dir := hal.NewFakePin(2)
	duty := &fakeDuty{}
	m, err := New(Left, dir, duty)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.SetSpeed(50)
	if dir.Get() {
		t.Fatal("forward speed should drive dir low")
	}
	m.Invert(true)
	if !dir.Get() {
		t.Fatal("inverted motor should drive dir high for forward")
	}
	if duty.last != DutyTop/2 {
		t.Fatalf("duty = %d, want %d", duty.last, DutyTop/2)
	}
}

func TestSpeedClamped(t *testing.T) {
	m, _ := New(Right, hal.NewFakePin(3), nil)
	m.SetSpeed(-400)
	if m.Speed() != -100 {
		t.Fatalf("Speed = %d, want -100", m.Speed())
	}
}

func TestPairInvert(t *testing.T) {
	l, _ := New(Left, hal.NewFakePin(1), nil)
	r, _ := New(Right, hal.NewFakePin(2), nil)
	p := &Pair{Left: l, Right: r}
	p.Invert(Left, true)
	if !l.Inverted() || r.Inverted() {
		t.Fatalf("left=%v right=%v", l.Inverted(), r.Inverted())
	}
}
