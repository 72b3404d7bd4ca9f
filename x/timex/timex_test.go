package timex

import (
	"testing"
	"time"
)

func TestDeadline(t *testing.T) {
	var d Deadline
	t0 := time.Unix(0, 0)
	if d.Due(t0) {
		t.Fatal("zero Deadline fired")
	}
	d.Arm(t0, time.Second)
	if d.Due(t0.Add(999 * time.Millisecond)) {
		t.Fatal("fired early")
	}
	if !d.Due(t0.Add(time.Second)) {
		t.Fatal("did not fire at period")
	}
	if d.Due(t0.Add(1500 * time.Millisecond)) {
		t.Fatal("fired twice in one period")
	}
	// A long stall collapses into one firing.
	if !d.Due(t0.Add(10 * time.Second)) {
		t.Fatal("did not fire after stall")
	}
	if d.Due(t0.Add(10*time.Second + 500*time.Millisecond)) {
		t.Fatal("stall produced a burst")
	}
}

func TestDeadlineDisarm(t *testing.T) {
	var d Deadline
	t0 := time.Unix(0, 0)
	d.Arm(t0, time.Second)
	if !d.Due(t0.Add(time.Second)) {
		t.Fatal("did not fire")
	}
	d.Disarm()
	if d.Due(t0.Add(5 * time.Second)) {
		t.Fatal("fired after Disarm")
	}
}
