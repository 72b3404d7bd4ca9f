package app

import (
	"context"
	"time"

	"robocore-go/errcode"
	"robocore-go/services/event"
	"robocore-go/services/fault"
	"robocore-go/services/heartbeat"
	"robocore-go/services/identity"
	"robocore-go/x/logx"
	"robocore-go/x/timex"
)

// Boot resolves the unit identity, applies its corrections and seeds the
// Startup event. A fault trips the latch and returns before any event is
// posted.
func (a *App) Boot(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prof, err := identity.Resolve(a.deps.Identity, a.deps.Units)
	if err != nil {
		return a.fatal(err, errcode.UIDReadFailed, "app.boot")
	}
	prof = prof.WithBoard(a.deps.Board)
	a.unit = prof.Unit

	if a.deps.Applier != nil {
		if err := a.deps.Applier.Apply(prof); err != nil {
			if errcode.Of(err) == errcode.AlreadyApplied {
				return err
			}
			return a.fatal(err, errcode.Of(err), "app.apply")
		}
	}
	a.disp.Post(event.Startup)
	logx.Info("app", "booted", "unit", a.unitName(), "board", a.deps.Board.Name, "mode", a.feat.Mode.String())
	return nil
}

func (a *App) fatal(err error, c errcode.Code, op string) error {
	f, ok := fault.As(err)
	if !ok {
		f = fault.New(c, op, err)
	}
	a.deps.Latch.Trip(f)
	return f
}

// Fatal trips the latch. It is handed to services that can report faults.
func (a *App) Fatal(f *fault.Error) { a.deps.Latch.Trip(f) }

func (a *App) unitName() string {
	if a.unit == "" {
		return "unknown"
	}
	return a.unit
}

// Run drives the scheduler until ctx ends or the fault latch trips. The
// latched fault is returned in the second case.
func (a *App) Run(ctx context.Context) error {
	if a.feat.Mode == Cooperative {
		return a.runCooperative(ctx)
	}
	return a.runPreemptive(ctx)
}

func (a *App) runPreemptive(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.deps.Keys != nil && a.feat.Keys > 0 {
		if n, err := a.deps.Keys.EnableIRQ(); err != nil {
			logx.Warn("app", "key interrupts unavailable, polling only", "err", err.Error())
		} else {
			logx.Debug("app", "key interrupts armed", "pins", n)
		}
		go a.deps.Keys.Run(ctx, a.feat.Scan)
	}
	if a.conn != nil {
		hb := heartbeat.New(a.disp, a.feat.Heartbeat)
		if err := hb.Start(ctx, a.deps.Bus.NewConnection("heartbeat")); err != nil {
			return err
		}
	} else if a.feat.Heartbeat > 0 {
		go a.tickHeartbeat(ctx)
	}
	if a.feat.Shell && a.deps.Console != nil {
		go a.deps.Console.Serve(ctx)
	}

	tick := time.NewTicker(a.feat.Poll)
	defer tick.Stop()
	for {
		a.disp.Drain(event.HandlerFunc(a.Handle))
		select {
		case <-ctx.Done():
			a.shutdown()
			return ctx.Err()
		case <-a.deps.Latch.Done():
			return a.latched()
		case <-tick.C:
		}
	}
}

// tickHeartbeat is the heartbeat source when no bus is wired.
func (a *App) tickHeartbeat(ctx context.Context) {
	t := time.NewTicker(a.feat.Heartbeat)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.disp.Post(event.LedHeartbeat)
		}
	}
}

func (a *App) runCooperative(ctx context.Context) error {
	var hb timex.Deadline
	if a.feat.Heartbeat > 0 {
		hb.Arm(time.Now(), a.feat.Heartbeat)
	}
	tick := time.NewTicker(a.feat.Poll)
	defer tick.Stop()
	for {
		now := time.Now()
		a.Step(now, &hb)
		select {
		case <-ctx.Done():
			a.shutdown()
			return ctx.Err()
		case <-a.deps.Latch.Done():
			return a.latched()
		case <-tick.C:
		}
	}
}

// Step is one cooperative pass: scan keys, check the deadlines, run
// buffered shell lines and drain. It never blocks.
func (a *App) Step(now time.Time, hb *timex.Deadline) int {
	a.now = now
	if a.deps.Keys != nil && a.feat.Keys > 0 {
		a.deps.Keys.Scan(now)
	}
	if hb != nil && hb.Due(now) {
		a.disp.Post(event.LedHeartbeat)
	}
	if a.ledOff.Due(now) {
		a.ledOff.Disarm()
		a.disp.Post(event.LedOff)
	}
	if a.feat.Shell && a.deps.Console != nil {
		a.deps.Console.Poll()
	}
	return a.disp.Drain(event.HandlerFunc(a.Handle))
}

func (a *App) latched() error {
	a.shutdown()
	if f, ok := a.deps.Latch.Tripped(); ok {
		return f
	}
	return errcode.Error
}

func (a *App) shutdown() {
	if a.deps.Blink != nil {
		a.deps.Blink.Stop()
	}
	if a.conn != nil {
		a.conn.Disconnect()
	}
}
