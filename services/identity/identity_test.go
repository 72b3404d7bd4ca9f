package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"robocore-go/errcode"
	"robocore-go/services/fault"
	"robocore-go/services/hal"
	"robocore-go/services/motor"
)

type fakeMotors struct {
	calls map[motor.Side]int
}

func (f *fakeMotors) Invert(s motor.Side, on bool) {
	if f.calls == nil {
		f.calls = map[motor.Side]int{}
	}
	if on {
		f.calls[s]++
	}
}

func TestResolveKnownUnit(t *testing.T) {
	p, err := Resolve(Static(KnownUnits[2].UID), KnownUnits)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Unit != "L4" || !p.InvertLeft {
		t.Fatalf("got %+v, want L4 with inverted left motor", p)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	id := UID{1, 2, 3}
	table := []Entry{
		{UID: UID{9}, Profile: Profile{Unit: "other"}},
		{UID: id, Profile: Profile{Unit: "first"}},
		{UID: id, Profile: Profile{Unit: "second", InvertRight: true}},
	}
	p, err := Resolve(Static(id), table)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Unit != "first" {
		t.Fatalf("got %q, want first", p.Unit)
	}
}

func TestResolveIsExactMatchOnly(t *testing.T) {
	// Differs from L20 in the last byte only.
	id := KnownUnits[0].UID
	id[UIDLen-1] ^= 0xFF
	p, err := Resolve(Static(id), KnownUnits)
	if err != nil {
		t.Fatalf("unknown unit must not fail: %v", err)
	}
	if !p.IsZero() {
		t.Fatalf("unknown unit should give the zero profile, got %+v", p)
	}
}

func TestResolveReadFailureIsFatal(t *testing.T) {
	boom := errors.New("flash busy")
	_, err := Resolve(ReaderFunc(func() (UID, error) { return UID{}, boom }), KnownUnits)
	f, ok := fault.As(err)
	if !ok {
		t.Fatalf("expected a fatal fault, got %v", err)
	}
	if f.C != errcode.UIDReadFailed || !errors.Is(err, boom) {
		t.Fatalf("unexpected fault: %v", f)
	}
}

func TestApplyOnce(t *testing.T) {
	pins := hal.NewFakeFactory()
	m := &fakeMotors{}
	a := &Applier{Motors: m, Pins: pins}

	p := Profile{Unit: "L4", InvertLeft: true}.WithBoard(Boards["robo_v2"])
	if err := a.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if m.calls[motor.Left] != 1 || m.calls[motor.Right] != 0 {
		t.Fatalf("motor calls = %v", m.calls)
	}
	for _, n := range []int{10, 11, 16, 17} {
		if pins.Fake(n).Pull() != hal.PullUp {
			t.Fatalf("pin %d not pulled up", n)
		}
	}

	err := a.Apply(p)
	if errcode.Of(err) != errcode.AlreadyApplied {
		t.Fatalf("second Apply: got %v, want already_applied", err)
	}
	if m.calls[motor.Left] != 1 {
		t.Fatal("second Apply must not double-invert")
	}
}

func TestApplyZeroProfileIsNoop(t *testing.T) {
	m := &fakeMotors{}
	a := &Applier{Motors: m}
	if err := a.Apply(Profile{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(m.calls) != 0 || !a.Applied() {
		t.Fatalf("calls=%v applied=%v", m.calls, a.Applied())
	}
}

func TestParseUIDRoundTrip(t *testing.T) {
	want := KnownUnits[1].UID
	got, err := ParseUID(want.String())
	if err != nil || got != want {
		t.Fatalf("ParseUID(%q) = %v, %v", want.String(), got, err)
	}
	if _, err := ParseUID("00:11"); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("short uid: %v", err)
	}
}

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serial")
	if err := os.WriteFile(path, []byte("000B FFFF 4E45 FFFF 4E45 2799 1002 0024\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	id, err := FileReader{Path: path}.ReadUID()
	if err != nil {
		t.Fatalf("ReadUID: %v", err)
	}
	if id != KnownUnits[2].UID {
		t.Fatalf("got %v", id)
	}
	if _, err := (FileReader{Path: filepath.Join(t.TempDir(), "missing")}).ReadUID(); errcode.Of(err) != errcode.UIDReadFailed {
		t.Fatalf("missing file: %v", err)
	}
}

func TestLookupBoard(t *testing.T) {
	if _, err := LookupBoard("robo_v2"); err != nil {
		t.Fatal(err)
	}
	if _, err := LookupBoard("nope"); errcode.Of(err) != errcode.UnknownBoard {
		t.Fatalf("got %v", err)
	}
}
