//go:build rp2040

package buzzer

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/buzzer"
)

// PinToner drives a passive piezo on one GPIO.
type PinToner struct {
	dev buzzer.Device
}

func NewPinToner(pin machine.Pin, bpm float64) *PinToner {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dev := buzzer.New(pin)
	if bpm > 0 {
		dev.BPM = bpm
	}
	return &PinToner{dev: dev}
}

func (p *PinToner) Tone(hz, beats float64) error { return p.dev.Tone(hz, beats) }

func (p *PinToner) Rest(beats float64) {
	time.Sleep(time.Duration(beats * 60 / p.dev.BPM * float64(time.Second)))
}
