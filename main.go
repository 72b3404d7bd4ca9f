//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"robocore-go/services/buzzer"
	"robocore-go/services/config"
	"robocore-go/services/console"
	"robocore-go/services/fault"
	"robocore-go/services/hal"
	"robocore-go/services/identity"
	"robocore-go/services/robot"
	"robocore-go/x/fmtx"
	"robocore-go/x/logx"
)

const buzzerBPM = 120

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg, err := config.Embedded()
	if err != nil {
		logx.Error("main", "embedded config invalid", err)
		fault.Forever(nil)
	}
	lvl, _ := logx.ParseLevel(cfg.Log.Level)
	logx.Configure(logx.Options{Level: lvl})

	ctx := context.Background()
	port, err := console.OpenUART(ctx, console.Config{ID: "uart0", Baud: 115200})
	if err != nil {
		logx.Error("main", "console unavailable", err)
		fault.Forever(nil)
	}
	fmtx.DefaultOutput = port
	fmtx.Printf("%s (%s) %s%s", cfg.Device.Name, cfg.Device.Board, cfg.App.Mode, "\r\n")

	pins, _ := hal.DefaultPinFactory()
	p := robot.Platform{
		Pins:     pins,
		Identity: identity.MachineReader{},
		Console:  port,
		Halt:     fault.Forever,
	}
	if cfg.App.Buzzer && cfg.Pins.Buzzer >= 0 {
		p.Buzzer = buzzer.NewAsync(buzzer.NewPinToner(machine.Pin(cfg.Pins.Buzzer), buzzerBPM))
	}

	r, err := robot.Assemble(cfg, p)
	if err != nil {
		logx.Error("main", "assembly failed", err)
		fault.Forever(nil)
	}
	if err := r.Start(ctx, port); err != nil {
		logx.Error("main", "scheduler stopped", err)
	}
	fault.Forever(nil)
}
