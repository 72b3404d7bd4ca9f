// Package display shows short status labels on the remote's screen.
package display

import (
	"sync"

	"robocore-go/x/logx"
)

// Display shows one label line.
type Display interface {
	ShowLabel(text string)
}

// Log is the display of builds without a screen.
type Log struct{}

func (Log) ShowLabel(text string) { logx.Info("display", "label", "text", text) }

// Memory keeps the last label; the simulator's status command reads it.
type Memory struct {
	mu   sync.Mutex
	last string
}

func (m *Memory) ShowLabel(text string) {
	m.mu.Lock()
	m.last = text
	m.mu.Unlock()
	logx.Debug("display", "label", "text", text)
}

func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
