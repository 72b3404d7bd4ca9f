// Package config loads the robot configuration and publishes it on the bus.
//
// Files are TOML or YAML, chosen by extension. Values not present in the
// file keep their defaults. Each section is published retained on
// config/<section> so services can pick up their settings at any time.
package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"robocore-go/bus"
	"robocore-go/errcode"
	"robocore-go/services/blink"
	"robocore-go/services/event"
	"robocore-go/x/logx"
)

const configPrefix = "config"

//go:embed default.toml
var embedded []byte

type Config struct {
	Device    Device    `toml:"device" yaml:"device"`
	Log       Log       `toml:"log" yaml:"log"`
	App       App       `toml:"app" yaml:"app"`
	Heartbeat Heartbeat `toml:"heartbeat" yaml:"heartbeat"`
	Blink     Blink     `toml:"blink" yaml:"blink"`
	Keys      Keys      `toml:"keys" yaml:"keys"`
	Pins      Pins      `toml:"pins" yaml:"pins"`
	Radio     Radio     `toml:"radio" yaml:"radio"`
}

type Device struct {
	Name  string `toml:"name" yaml:"name"`
	Board string `toml:"board" yaml:"board"` // identity.Boards key
	// UIDFile, when set, is read for the unit identifier (host builds).
	UIDFile string `toml:"uid_file" yaml:"uid_file"`
}

type Log struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
	MaxMB int    `toml:"max_mb" yaml:"max_mb"`
}

const (
	ModeCooperative = "cooperative"
	ModePreemptive  = "preemptive"
)

type App struct {
	Mode       string `toml:"mode" yaml:"mode"`
	Shell      bool   `toml:"shell" yaml:"shell"`
	Buzzer     bool   `toml:"buzzer" yaml:"buzzer"`
	Remote     bool   `toml:"remote" yaml:"remote"`
	LineFollow bool   `toml:"line_follow" yaml:"line_follow"`
	PollMs     int    `toml:"poll_ms" yaml:"poll_ms"`
}

type Heartbeat struct {
	IntervalMs int `toml:"interval_ms" yaml:"interval_ms"` // 0 disables
}

type Blink struct {
	Policy string `toml:"policy" yaml:"policy"` // replace | reject
}

type Keys struct {
	DebounceMs  int `toml:"debounce_ms" yaml:"debounce_ms"`
	LongPressMs int `toml:"long_press_ms" yaml:"long_press_ms"`
	ScanMs      int `toml:"scan_ms" yaml:"scan_ms"`
}

// Pins are platform GPIO numbers. A negative number means not fitted.
type Pins struct {
	LED1         int   `toml:"led1" yaml:"led1"`
	LED2         int   `toml:"led2" yaml:"led2"`
	LEDActiveLow bool  `toml:"led_active_low" yaml:"led_active_low"`
	Keys         []int `toml:"keys" yaml:"keys"`
	KeyActiveLow bool  `toml:"key_active_low" yaml:"key_active_low"`
	Buzzer       int   `toml:"buzzer" yaml:"buzzer"`
	MotorLeft    int   `toml:"motor_left_dir" yaml:"motor_left_dir"`
	MotorRight   int   `toml:"motor_right_dir" yaml:"motor_right_dir"`
}

const (
	TransportBus  = "bus"
	TransportMQTT = "mqtt"
)

type Radio struct {
	Transport string `toml:"transport" yaml:"transport"`
	Broker    string `toml:"broker" yaml:"broker"`
	ClientID  string `toml:"client_id" yaml:"client_id"`
	Prefix    string `toml:"prefix" yaml:"prefix"`
	TimeoutMs int    `toml:"timeout_ms" yaml:"timeout_ms"`
}

// Default is the configuration of a bare Pico dev board.
func Default() Config {
	return Config{
		Device:    Device{Name: "robot", Board: "pico_default"},
		Log:       Log{Level: "info", MaxMB: 4},
		App:       App{Mode: ModePreemptive, Shell: true, Buzzer: true, PollMs: 10},
		Heartbeat: Heartbeat{IntervalMs: 1000},
		Blink:     Blink{Policy: "replace"},
		Keys:      Keys{DebounceMs: 20, LongPressMs: 1000, ScanMs: 10},
		Pins: Pins{
			LED1: 25, LED2: -1,
			Keys: []int{14}, KeyActiveLow: true,
			Buzzer: -1, MotorLeft: -1, MotorRight: -1,
		},
		Radio: Radio{Transport: TransportBus, Prefix: "robot", TimeoutMs: 500},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	case ".toml", "":
		return DecodeTOML(raw)
	}
	return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: "unsupported extension " + filepath.Ext(path)}
}

// Embedded returns the configuration compiled into the firmware.
func Embedded() (Config, error) { return DecodeTOML(embedded) }

func DecodeTOML(raw []byte) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(raw), &cfg)
	if err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.toml", Err: err}
	}
	for _, k := range meta.Undecoded() {
		logx.Warn("config", "unknown key ignored", "key", k.String())
	}
	// An explicit empty key list means no keys, not the default.
	if meta.IsDefined("pins", "keys") && cfg.Pins.Keys == nil {
		cfg.Pins.Keys = []int{}
	}
	return cfg, cfg.Validate()
}

func DecodeYAML(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.yaml", Err: err}
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.validate", Msg: msg}
	}
	switch c.App.Mode {
	case ModeCooperative, ModePreemptive:
	default:
		return bad("app.mode must be cooperative or preemptive")
	}
	if len(c.Pins.Keys) > event.MaxKeys {
		return bad("at most 7 keys")
	}
	if c.Heartbeat.IntervalMs < 0 {
		return bad("heartbeat.interval_ms must not be negative")
	}
	if c.App.PollMs <= 0 {
		return bad("app.poll_ms must be positive")
	}
	if _, ok := blink.ParsePolicy(c.Blink.Policy); !ok {
		return bad("blink.policy must be replace or reject")
	}
	if _, ok := logx.ParseLevel(c.Log.Level); !ok {
		return bad("unknown log.level " + c.Log.Level)
	}
	if c.Pins.LED1 < 0 {
		return bad("pins.led1 is required")
	}
	switch c.Radio.Transport {
	case TransportBus:
	case TransportMQTT:
		if c.Radio.Broker == "" {
			return bad("radio.broker is required for mqtt")
		}
	default:
		return bad("radio.transport must be bus or mqtt")
	}
	return nil
}

// Publish sends every section retained on config/<section>.
func (c Config) Publish(conn *bus.Connection) {
	sections := []struct {
		key string
		val any
	}{
		{"device", c.Device},
		{"log", c.Log},
		{"app", c.App},
		{"heartbeat", c.Heartbeat},
		{"blink", c.Blink},
		{"keys", c.Keys},
		{"pins", c.Pins},
		{"radio", c.Radio},
	}
	for _, s := range sections {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, s.key), s.val, true))
	}
	logx.Debug("config", "published", "sections", len(sections))
}
