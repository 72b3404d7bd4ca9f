// Package robot assembles the services from a configuration and a platform.
// The firmware entry and the host simulator differ only in the Platform
// they pass in.
package robot

import (
	"context"
	"io"

	"robocore-go/bus"
	"robocore-go/errcode"
	"robocore-go/services/app"
	"robocore-go/services/blink"
	"robocore-go/services/buzzer"
	"robocore-go/services/config"
	"robocore-go/services/display"
	"robocore-go/services/event"
	"robocore-go/services/fault"
	"robocore-go/services/hal"
	"robocore-go/services/identity"
	"robocore-go/services/keys"
	"robocore-go/services/led"
	"robocore-go/services/linefollow"
	"robocore-go/services/motor"
	"robocore-go/services/radio"
	"robocore-go/services/shell"
	"robocore-go/x/logx"
	"robocore-go/x/timex"
)

// Platform is what the target provides.
type Platform struct {
	Pins     hal.PinFactory
	Identity identity.Reader
	Console  io.Writer

	// Buzzer, Radio and Display are optional. Missing ones fall back to the
	// logging player, the bus loopback and the logging display.
	Buzzer  buzzer.Player
	Radio   radio.Transport
	Display display.Display

	// Halt runs when the fault latch trips. nil leaves the process running.
	Halt func(*fault.Error)
	// Spawn starts blink tasks. nil uses a plain goroutine.
	Spawn func(func()) error
}

// Robot is the assembled system.
type Robot struct {
	Config config.Config
	Bus    *bus.Bus
	App    *app.App
	Shell  *shell.Shell
	LED1   *led.Line
	LED2   *led.Line
	Blink  *blink.Manager
	Keys   *keys.Scanner
	Motors *motor.Pair
	Follow *linefollow.Controller
	Latch  *fault.Latch
}

// Assemble builds every service named by cfg. It touches the hardware
// only to configure pin directions; nothing runs until Start.
func Assemble(cfg config.Config, p Platform) (*Robot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p.Pins == nil || p.Identity == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "robot.assemble", Msg: "pins and identity are required"}
	}
	if p.Console == nil {
		p.Console = io.Discard
	}
	board, err := identity.LookupBoard(cfg.Device.Board)
	if err != nil {
		return nil, err
	}
	mode, _ := app.ParseMode(cfg.App.Mode)

	r := &Robot{Config: cfg, Bus: bus.NewBus(8), Latch: fault.NewLatch(p.Halt)}

	if r.LED1, err = newLine(p.Pins, "LED1", cfg.Pins.LED1, cfg.Pins.LEDActiveLow); err != nil {
		return nil, err
	}
	if cfg.Pins.LED2 >= 0 {
		if r.LED2, err = newLine(p.Pins, "LED2", cfg.Pins.LED2, cfg.Pins.LEDActiveLow); err != nil {
			return nil, err
		}
	}
	if r.Motors, err = newMotors(p.Pins, cfg.Pins); err != nil {
		return nil, err
	}

	r.Shell = shell.New(p.Console)
	router := &shell.Router{LED1: r.LED1, Fatal: r.Latch.Trip}
	if r.LED2 != nil {
		router.LED2 = r.LED2
		// Blink needs both lines and a preemptive scheduler.
		if mode == app.Preemptive {
			policy, _ := blink.ParsePolicy(cfg.Blink.Policy)
			r.Blink = blink.NewManager(r.LED1, r.LED2, blink.Config{Policy: policy, Spawn: p.Spawn})
			router.Blink = r.Blink
		}
	} else {
		router.LED2 = offLine{}
	}

	if cfg.App.LineFollow {
		r.Follow = linefollow.New(r.Bus.NewConnection("linefollow"))
	}

	feat := app.Features{
		Keys:       len(cfg.Pins.Keys),
		Buzzer:     cfg.App.Buzzer,
		Shell:      cfg.App.Shell,
		Remote:     cfg.App.Remote,
		LineFollow: cfg.App.LineFollow,
		Mode:       mode,
		Heartbeat:  timex.Ms(cfg.Heartbeat.IntervalMs),
		Poll:       timex.Ms(cfg.App.PollMs),
		Scan:       timex.Ms(cfg.Keys.ScanMs),
	}
	deps := app.Deps{
		Events:   event.New(),
		LED1:     r.LED1,
		Console:  r.Shell,
		Blink:    r.Blink,
		Bus:      r.Bus,
		Identity: p.Identity,
		Board:    board,
		Applier:  &identity.Applier{Pins: p.Pins},
		Latch:    r.Latch,
	}
	if r.LED2 != nil {
		deps.LED2 = r.LED2
	}
	if r.Motors != nil {
		deps.Applier.Motors = r.Motors
	}
	if r.Follow != nil {
		deps.LineFollow = r.Follow
	}
	if feat.Buzzer {
		deps.Buzzer = p.Buzzer
		if deps.Buzzer == nil {
			deps.Buzzer = buzzer.Log{}
		}
	}
	if feat.Remote {
		deps.Radio = p.Radio
		if deps.Radio == nil {
			deps.Radio = radio.NewBusTransport(r.Bus.NewConnection("radio"))
		}
		deps.Display = p.Display
		if deps.Display == nil {
			deps.Display = display.Log{}
		}
	}
	if feat.Keys > 0 {
		if r.Keys, err = newKeys(p.Pins, cfg, deps.Events); err != nil {
			return nil, err
		}
		deps.Keys = r.Keys
	}
	r.App = app.New(feat, deps)

	r.Shell.Add(router)
	r.Shell.Add(r.App)
	return r, nil
}

func newKeys(f hal.PinFactory, cfg config.Config, post keys.Poster) (*keys.Scanner, error) {
	ks := make([]keys.Key, 0, len(cfg.Pins.Keys))
	for _, n := range cfg.Pins.Keys {
		pin, ok := f.ByNumber(n)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "robot.keys"}
		}
		ks = append(ks, keys.Key{Pin: pin, ActiveLow: cfg.Pins.KeyActiveLow})
	}
	long := timex.Ms(cfg.Keys.LongPressMs)
	if cfg.Keys.LongPressMs == 0 {
		long = -1
	}
	return keys.New(post, ks, keys.Config{Debounce: timex.Ms(cfg.Keys.DebounceMs), LongPress: long})
}

// Start publishes the configuration, feeds the console, boots and runs
// the scheduler until ctx ends or a fault latches.
func (r *Robot) Start(ctx context.Context, console io.Reader) error {
	r.Config.Publish(r.Bus.NewConnection("config"))
	if err := r.App.Boot(ctx); err != nil {
		return err
	}
	if console != nil && r.Config.App.Shell {
		r.Shell.Feed(ctx, console)
	}
	return r.App.Run(ctx)
}

func newLine(f hal.PinFactory, name string, n int, activeLow bool) (*led.Line, error) {
	pin, ok := f.ByNumber(n)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "robot.led", Msg: name}
	}
	l, err := led.New(name, pin, activeLow)
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "robot.led", Msg: name, Err: err}
	}
	return l, nil
}

func newMotors(f hal.PinFactory, pins config.Pins) (*motor.Pair, error) {
	if pins.MotorLeft < 0 && pins.MotorRight < 0 {
		return nil, nil
	}
	pair := &motor.Pair{}
	for _, m := range []struct {
		side motor.Side
		n    int
		dst  **motor.Motor
	}{
		{motor.Left, pins.MotorLeft, &pair.Left},
		{motor.Right, pins.MotorRight, &pair.Right},
	} {
		if m.n < 0 {
			continue
		}
		pin, ok := f.ByNumber(m.n)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "robot.motor", Msg: m.side.String()}
		}
		mt, err := motor.New(m.side, pin, nil)
		if err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: "robot.motor", Err: err}
		}
		*m.dst = mt
	}
	logx.Debug("robot", "motors configured", "left", pins.MotorLeft, "right", pins.MotorRight)
	return pair, nil
}

// offLine stands in for a missing LED2 in status output.
type offLine struct{}

func (offLine) Toggle() bool { return false }
func (offLine) Get() bool    { return false }
