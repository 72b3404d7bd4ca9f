// Command robotsim runs the robot controller on a host. Pins are simulated
// unless -gpiochip names a Linux GPIO character device; keys are pressed
// from the console with "key <n>".
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"robocore-go/services/config"
	"robocore-go/services/console"
	"robocore-go/services/display"
	"robocore-go/services/hal"
	"robocore-go/services/identity"
	"robocore-go/services/radio"
	"robocore-go/services/robot"
	"robocore-go/x/fmtx"
	"robocore-go/x/logx"
	"robocore-go/x/strx"
	"robocore-go/x/timex"
)

func main() {
	cfgPath := flag.String("config", "", "config file (.toml, .yaml); empty uses the built-in defaults")
	uid := flag.String("uid", "", "unit identifier in hex; overrides device.uid_file")
	chip := flag.String("gpiochip", "", "drive real GPIO through this chip (e.g. gpiochip0) instead of simulated pins")
	level := flag.String("log-level", "", "override log.level")
	flag.Parse()

	if err := run(*cfgPath, *uid, *chip, *level); err != nil {
		logx.Error("robotsim", "exit", err)
		os.Exit(1)
	}
}

func run(cfgPath, uid, chip, level string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	lvl, _ := logx.ParseLevel(strx.Coalesce(level, cfg.Log.Level))
	logx.Configure(logx.Options{Level: lvl, File: cfg.Log.File, MaxMB: cfg.Log.MaxMB})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := console.Stdio()
	fmtx.DefaultOutput = port

	var fakes *hal.FakeFactory
	var pins hal.PinFactory
	if chip != "" {
		cf, closeChip, err := openChip(chip)
		if err != nil {
			return err
		}
		defer closeChip()
		pins = cf
	} else {
		fakes = hal.NewFakeFactory()
		pins = fakes
	}

	id, err := identityReader(cfg, uid)
	if err != nil {
		return err
	}
	disp := &display.Memory{}
	p := robot.Platform{Pins: pins, Identity: id, Console: port, Display: disp}

	if cfg.Radio.Transport == config.TransportMQTT {
		mq, err := radio.DialMQTT(radio.MQTTConfig{
			Broker:   cfg.Radio.Broker,
			ClientID: strx.Coalesce(cfg.Radio.ClientID, cfg.Device.Name),
			Prefix:   cfg.Radio.Prefix,
			Timeout:  timex.Ms(cfg.Radio.TimeoutMs),
		})
		if err != nil {
			return err
		}
		defer mq.Close()
		p.Radio = mq
	}

	r, err := robot.Assemble(cfg, p)
	if err != nil {
		return err
	}
	r.Shell.Add(&simParser{cfg: cfg, pins: fakes, disp: disp})

	fmtx.Printf("robotsim: %s on %s, %s scheduler. Type help.\r\n", cfg.Device.Name, cfg.Device.Board, cfg.App.Mode)
	err = r.Start(ctx, port)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Embedded()
	}
	return config.Load(path)
}

func identityReader(cfg config.Config, uid string) (identity.Reader, error) {
	switch {
	case uid != "":
		u, err := identity.ParseUID(uid)
		if err != nil {
			return nil, err
		}
		return identity.Static(u), nil
	case cfg.Device.UIDFile != "":
		return identity.FileReader{Path: cfg.Device.UIDFile}, nil
	}
	return identity.Static{}, nil
}
