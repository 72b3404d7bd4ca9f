// Package buzzer plays the short audio cues used by the application.
package buzzer

import (
	"sync/atomic"

	"robocore-go/errcode"
	"robocore-go/x/logx"
)

type Tune uint8

const (
	Welcome Tune = iota
	Button
	numTunes
)

func (t Tune) String() string {
	switch t {
	case Welcome:
		return "welcome"
	case Button:
		return "button"
	}
	return "unknown"
}

// Note is one tone; Beats is in quarter notes, Hz zero is a rest.
type Note struct {
	Hz    float64
	Beats float64
}

var tunes = [numTunes][]Note{
	Welcome: {{523.25, 0.5}, {659.25, 0.5}, {783.99, 0.5}, {1046.5, 1}},
	Button:  {{880, 0.25}},
}

// Notes returns the note list of a tune.
func Notes(t Tune) ([]Note, bool) {
	if t >= numTunes {
		return nil, false
	}
	return tunes[t], true
}

// Player triggers a tune without blocking the caller.
type Player interface {
	PlayTune(Tune) error
}

// Toner produces one blocking tone on the hardware.
type Toner interface {
	Tone(hz, beats float64) error
	Rest(beats float64)
}

// Async plays tunes on a background goroutine, one at a time.
type Async struct {
	toner Toner
	busy  atomic.Bool
	done  func(Tune) // test hook, called after a tune ends
}

func NewAsync(t Toner) *Async { return &Async{toner: t} }

// PlayTune starts t and returns at once. A tune already playing makes it
// return errcode.Busy.
func (a *Async) PlayTune(t Tune) error {
	notes, ok := Notes(t)
	if !ok {
		return &errcode.E{C: errcode.InvalidParams, Op: "buzzer.play", Msg: "unknown tune"}
	}
	if !a.busy.CompareAndSwap(false, true) {
		return errcode.Busy
	}
	go func() {
		defer a.busy.Store(false)
		for _, n := range notes {
			if n.Hz == 0 {
				a.toner.Rest(n.Beats)
				continue
			}
			if err := a.toner.Tone(n.Hz, n.Beats); err != nil {
				logx.Warn("buzzer", "tone failed", "tune", t.String(), "err", err.Error())
				break
			}
		}
		if a.done != nil {
			a.done(t)
		}
	}()
	return nil
}

// Playing reports whether a tune is in progress.
func (a *Async) Playing() bool { return a.busy.Load() }

// Log is a Player for builds without a buzzer; it records the cue only.
type Log struct{}

func (Log) PlayTune(t Tune) error {
	if t >= numTunes {
		return &errcode.E{C: errcode.InvalidParams, Op: "buzzer.play", Msg: "unknown tune"}
	}
	logx.Info("buzzer", "tune", "name", t.String())
	return nil
}
