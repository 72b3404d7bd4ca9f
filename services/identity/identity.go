// Package identity resolves which physical unit the firmware runs on and
// applies that unit's corrections once at boot.
package identity

import (
	"encoding/hex"
	"strings"
	"sync/atomic"

	"robocore-go/errcode"
	"robocore-go/services/fault"
	"robocore-go/services/hal"
	"robocore-go/services/motor"
	"robocore-go/x/conv"
	"robocore-go/x/logx"
)

// UIDLen is the length of the immutable per-device identifier.
const UIDLen = 16

type UID [UIDLen]byte

func (u UID) String() string {
	buf := make([]byte, 0, UIDLen*3)
	return string(conv.AppendHexSep(buf, u[:], ':'))
}

// ParseUID accepts plain hex or hex pairs separated by ':', '-' or spaces.
func ParseUID(s string) (UID, error) {
	var u UID
	clean := strings.NewReplacer(":", "", "-", "", " ", "").Replace(strings.TrimSpace(s))
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return u, &errcode.E{C: errcode.InvalidParams, Op: "parse_uid", Err: err}
	}
	if len(raw) != UIDLen {
		return u, &errcode.E{C: errcode.InvalidParams, Op: "parse_uid", Msg: "want 16 bytes"}
	}
	copy(u[:], raw)
	return u, nil
}

// Reader reads the identifier from immutable hardware storage.
type Reader interface {
	ReadUID() (UID, error)
}

// Static is a Reader with a fixed identifier.
type Static UID

func (s Static) ReadUID() (UID, error) { return UID(s), nil }

// ReaderFunc adapts a function to Reader.
type ReaderFunc func() (UID, error)

func (f ReaderFunc) ReadUID() (UID, error) { return f() }

// -----------------------------------------------------------------------------
// Profiles
// -----------------------------------------------------------------------------

// Profile is the set of startup corrections for one unit.
type Profile struct {
	Unit        string
	InvertLeft  bool
	InvertRight bool
	PullUps     []int // GPIO numbers that need pull-ups
}

func (p Profile) IsZero() bool {
	return p.Unit == "" && !p.InvertLeft && !p.InvertRight && len(p.PullUps) == 0
}

// WithBoard adds the board variant's pin configuration.
func (p Profile) WithBoard(b Board) Profile {
	if len(b.EncoderPullUps) == 0 {
		return p
	}
	out := p
	out.PullUps = append(append([]int(nil), p.PullUps...), b.EncoderPullUps...)
	return out
}

// Entry pairs a known identifier with its profile.
type Entry struct {
	UID     UID
	Profile Profile
}

// KnownUnits is ordered; the first exact match wins.
var KnownUnits = []Entry{
	{
		UID:     UID{0x00, 0x03, 0x00, 0x00, 0x67, 0xCD, 0xB7, 0x21, 0x4E, 0x45, 0x32, 0x15, 0x30, 0x02, 0x00, 0x13},
		Profile: Profile{Unit: "L20"},
	},
	{
		UID:     UID{0x00, 0x05, 0x00, 0x00, 0x4E, 0x45, 0xB7, 0x21, 0x4E, 0x45, 0x32, 0x15, 0x30, 0x02, 0x00, 0x13},
		Profile: Profile{Unit: "L21"},
	},
	{
		// Left motor is wired reversed on this unit.
		UID:     UID{0x00, 0x0B, 0xFF, 0xFF, 0x4E, 0x45, 0xFF, 0xFF, 0x4E, 0x45, 0x27, 0x99, 0x10, 0x02, 0x00, 0x24},
		Profile: Profile{Unit: "L4", InvertLeft: true},
	},
}

// Resolve reads the identifier and looks it up in table order.
// A read failure is fatal; an unknown unit yields the zero profile.
func Resolve(r Reader, table []Entry) (Profile, error) {
	id, err := r.ReadUID()
	if err != nil {
		return Profile{}, fault.New(errcode.UIDReadFailed, "identity.resolve", err)
	}
	for _, e := range table {
		if e.UID == id {
			logx.Info("identity", "known unit", "unit", e.Profile.Unit, "uid", id.String())
			return e.Profile, nil
		}
	}
	logx.Info("identity", "unknown unit, no corrections", "uid", id.String())
	return Profile{}, nil
}

// -----------------------------------------------------------------------------
// Application
// -----------------------------------------------------------------------------

// MotorSet receives polarity corrections.
type MotorSet interface {
	Invert(side motor.Side, on bool)
}

// Applier applies a profile to the hardware exactly once per boot.
type Applier struct {
	Motors MotorSet       // nil when the build has no motors
	Pins   hal.PinFactory // nil when no pin configuration is possible

	applied atomic.Bool
}

// Apply performs every adaptation synchronously. A second call returns
// errcode.AlreadyApplied without touching hardware.
func (a *Applier) Apply(p Profile) error {
	if !a.applied.CompareAndSwap(false, true) {
		return &errcode.E{C: errcode.AlreadyApplied, Op: "identity.apply"}
	}
	if a.Motors != nil {
		if p.InvertLeft {
			a.Motors.Invert(motor.Left, true)
		}
		if p.InvertRight {
			a.Motors.Invert(motor.Right, true)
		}
	}
	for _, n := range p.PullUps {
		if a.Pins == nil {
			return &errcode.E{C: errcode.UnknownPin, Op: "identity.apply", Msg: "no pin factory"}
		}
		pin, ok := a.Pins.ByNumber(n)
		if !ok {
			return &errcode.E{C: errcode.UnknownPin, Op: "identity.apply"}
		}
		if err := pin.ConfigureInput(hal.PullUp); err != nil {
			return &errcode.E{C: errcode.Error, Op: "identity.apply", Err: err}
		}
	}
	logx.Info("identity", "profile applied", "unit", p.Unit, "pullups", len(p.PullUps))
	return nil
}

// Applied reports whether Apply has run.
func (a *Applier) Applied() bool { return a.applied.Load() }
