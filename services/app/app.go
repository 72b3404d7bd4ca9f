// Package app wires the robot services together: the event table, the
// boot sequence and the scheduler loop.
package app

import (
	"time"

	"robocore-go/bus"
	"robocore-go/services/blink"
	"robocore-go/services/buzzer"
	"robocore-go/services/display"
	"robocore-go/services/event"
	"robocore-go/services/fault"
	"robocore-go/services/identity"
	"robocore-go/services/keys"
	"robocore-go/services/linefollow"
	"robocore-go/services/radio"
	"robocore-go/services/shell"
	"robocore-go/x/conv"
	"robocore-go/x/logx"
	"robocore-go/x/timex"
)

// Mode selects the scheduling model.
type Mode uint8

const (
	Preemptive Mode = iota
	Cooperative
)

func (m Mode) String() string {
	if m == Cooperative {
		return "cooperative"
	}
	return "preemptive"
}

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "preemptive", "":
		return Preemptive, true
	case "cooperative":
		return Cooperative, true
	}
	return Preemptive, false
}

// Features are the build options that shape the event table.
type Features struct {
	Keys       int // fitted keys, 0..event.MaxKeys
	Buzzer     bool
	Shell      bool
	Remote     bool // keys also drive the display and the radio
	LineFollow bool
	Mode       Mode

	Heartbeat time.Duration // 0 disables
	Poll      time.Duration // main loop period
	Scan      time.Duration // key scan period (preemptive)
}

// Output is an LED line.
type Output interface {
	On()
	Off()
	Toggle() bool
	Get() bool
}

// LineFollower is the start/stop control of the follower.
type LineFollower interface {
	StartStop() linefollow.State
	Stop()
}

// Deps are the collaborators. Only LED1, Identity and Latch are required;
// the rest may be nil when the matching feature is off.
type Deps struct {
	// Events is the pending set. New creates one when nil.
	Events *event.Dispatcher

	LED1, LED2 Output
	Buzzer     buzzer.Player
	Radio      radio.Transport
	Display    display.Display
	LineFollow LineFollower
	Console    *shell.Shell
	Keys       *keys.Scanner
	Blink      *blink.Manager
	Bus        *bus.Bus

	Identity identity.Reader
	Units    []identity.Entry
	Board    identity.Board
	Applier  *identity.Applier
	Latch    *fault.Latch

	// AfterFunc schedules f after d in preemptive mode. Defaults to
	// time.AfterFunc. Cooperative mode polls a deadline in Step instead.
	AfterFunc func(d time.Duration, f func())
}

// StartupLEDTime is how long LED1 stays on after boot.
const StartupLEDTime = 500 * time.Millisecond

type App struct {
	feat  Features
	deps  Deps
	disp  *event.Dispatcher
	table event.Table
	conn  *bus.Connection

	unit string

	// Cooperative mode only. now is the time of the current Step.
	now    time.Time
	ledOff timex.Deadline
}

func New(f Features, d Deps) *App {
	if f.Keys > event.MaxKeys {
		f.Keys = event.MaxKeys
	}
	if f.Poll <= 0 {
		f.Poll = 10 * time.Millisecond
	}
	if d.AfterFunc == nil {
		d.AfterFunc = func(dd time.Duration, fn func()) { time.AfterFunc(dd, fn) }
	}
	if d.Units == nil {
		d.Units = identity.KnownUnits
	}
	if d.Latch == nil {
		d.Latch = fault.NewLatch(nil)
	}
	if d.Events == nil {
		d.Events = event.New()
	}
	a := &App{feat: f, deps: d, disp: d.Events}
	if d.Bus != nil {
		a.conn = d.Bus.NewConnection("app")
	}
	a.buildTable()
	return a
}

// Dispatcher is the pending set producers post to.
func (a *App) Dispatcher() *event.Dispatcher { return a.disp }

// Handle runs the table entry for t and publishes it on app/event/<tag>.
func (a *App) Handle(t event.Tag) {
	a.table.Handle(t)
	if a.conn != nil {
		a.conn.Publish(a.conn.NewMessage(bus.T("app", "event", t.String()), t.String(), false))
	}
}

// -----------------------------------------------------------------------------
// Event table
// -----------------------------------------------------------------------------

// remoteAction is what a key sends on remote builds.
type remoteAction struct {
	label string
	msg   radio.MsgType
	lap   byte // lap point signal sent to the lap counter, 0 for none
}

var remoteActions = [event.MaxKeys]remoteAction{
	{label: "Right", msg: radio.MsgRight},
	{label: "Left", msg: radio.MsgLeft},
	{label: "Backwards", msg: radio.MsgBackward},
	{label: "Stop", msg: radio.MsgStop, lap: 'T'},
	{label: "Forward", msg: radio.MsgForward},
	{label: "Signal A", lap: 'A'},
	{label: "Line Follow", msg: radio.MsgLineFollow, lap: 'B'},
}

// lapChannel leads every lap point payload.
const lapChannel = 0x06

func (a *App) buildTable() {
	tb := &a.table
	tb[event.Startup] = func(event.Tag) { a.onStartup() }
	tb[event.LedOff] = func(event.Tag) { a.deps.LED1.Off() }
	tb[event.LedHeartbeat] = func(event.Tag) { a.deps.LED1.Toggle() }

	for n := 1; n <= a.feat.Keys; n++ {
		t, _ := event.KeyPressed(n)
		n := n
		tb[t] = func(event.Tag) { a.onKeyPressed(n) }
	}
	if a.feat.Keys >= 1 && a.feat.LineFollow && a.deps.LineFollow != nil {
		tb[event.Key1LongPressed] = func(event.Tag) { a.deps.LineFollow.Stop() }
	}
}

func (a *App) onStartup() {
	a.deps.LED1.On()
	a.play(buzzer.Welcome)
	if a.feat.Mode == Cooperative {
		a.ledOff.Arm(a.now, StartupLEDTime)
		return
	}
	a.deps.AfterFunc(StartupLEDTime, func() { a.disp.Post(event.LedOff) })
}

func (a *App) onKeyPressed(n int) {
	a.say(string(append(conv.AppendInt([]byte("SW"), n), " pressed\r\n"...)))
	a.deps.LED1.Toggle()
	if n == 1 {
		a.play(buzzer.Button)
		if a.feat.LineFollow && a.deps.LineFollow != nil {
			a.deps.LineFollow.StartStop()
		}
	}
	if a.feat.Remote {
		a.remote(remoteActions[n-1])
	}
}

func (a *App) remote(r remoteAction) {
	if a.deps.Display != nil {
		a.deps.Display.ShowLabel(r.label)
	}
	if a.deps.Radio == nil {
		return
	}
	// Send results are deliberately dropped.
	if r.msg != 0 {
		_ = a.deps.Radio.Send([]byte{0}, r.msg, radio.Broadcast, radio.FlagsNone)
	}
	if r.lap != 0 {
		_ = a.deps.Radio.Send([]byte{lapChannel, r.lap}, radio.MsgLapPoint, radio.LapCounter, radio.FlagsNone)
	}
}

func (a *App) play(t buzzer.Tune) {
	if !a.feat.Buzzer || a.deps.Buzzer == nil {
		return
	}
	if err := a.deps.Buzzer.PlayTune(t); err != nil {
		logx.Debug("app", "tune skipped", "tune", t.String(), "err", err.Error())
	}
}

func (a *App) say(msg string) {
	if a.feat.Shell && a.deps.Console != nil {
		a.deps.Console.SendString(msg)
	}
}
