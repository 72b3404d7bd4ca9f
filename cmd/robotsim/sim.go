package main

import (
	"io"
	"time"

	"github.com/google/shlex"

	"robocore-go/errcode"
	"robocore-go/services/config"
	"robocore-go/services/display"
	"robocore-go/services/hal"
	"robocore-go/services/shell"
	"robocore-go/x/strconvx"
	"robocore-go/x/strx"
	"robocore-go/x/timex"
)

// tapTime is long enough to pass any sane debounce.
const tapTime = 100 * time.Millisecond

// simParser is the "key" and "sim" command group of the simulator.
type simParser struct {
	cfg  config.Config
	pins *hal.FakeFactory // nil when driving real GPIO
	disp *display.Memory

	// after schedules the key release. Defaults to time.AfterFunc.
	after func(time.Duration, func())
}

func (s *simParser) ParseCommand(cmd string, out io.Writer) (bool, errcode.Code) {
	args, err := shlex.Split(cmd)
	if err != nil || len(args) == 0 {
		return false, errcode.OK
	}
	switch {
	case len(args) == 1 && args[0] == shell.CmdHelp:
		shell.SendHelpStr(out, "sim", "Group of simulator commands")
		shell.SendHelpStr(out, "  key <n> [long]", "Tap key n, or hold it past the long-press time")
		return true, errcode.OK
	case len(args) == 1 && args[0] == shell.CmdStatus:
		s.printStatus(out)
		return true, errcode.OK
	case len(args) == 2 && args[0] == "sim" && args[1] == shell.CmdStatus:
		s.printStatus(out)
		return true, errcode.OK
	case args[0] == "key" && (len(args) == 2 || (len(args) == 3 && args[2] == "long")):
		n, ok := strconvx.ParsePositive(args[1])
		if !ok {
			return false, errcode.OK
		}
		hold := tapTime
		if len(args) == 3 {
			hold += timex.Ms(s.cfg.Keys.LongPressMs)
		}
		return true, s.press(n, hold)
	}
	return false, errcode.OK
}

func (s *simParser) press(n int, hold time.Duration) errcode.Code {
	if s.pins == nil {
		return errcode.Unsupported
	}
	if n > len(s.cfg.Pins.Keys) {
		return errcode.InvalidParams
	}
	pin := s.pins.Fake(s.cfg.Pins.Keys[n-1])
	idle := s.cfg.Pins.KeyActiveLow
	pin.Set(!idle)
	after := s.after
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	after(hold, func() { pin.Set(idle) })
	return errcode.OK
}

func (s *simParser) printStatus(out io.Writer) {
	shell.SendStatusStr(out, "sim", "")
	pins := "simulated"
	if s.pins == nil {
		pins = "gpiochip"
	}
	shell.SendStatusStr(out, "  pins", pins)
	if s.disp != nil {
		shell.SendStatusStr(out, "  display", strx.Coalesce(s.disp.Last(), "-"))
	}
}
