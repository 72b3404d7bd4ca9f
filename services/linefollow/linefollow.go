// Package linefollow holds the start/stop state of the line follower.
// The follower itself runs elsewhere and watches linefollow/state.
package linefollow

import (
	"sync"

	"robocore-go/bus"
	"robocore-go/x/logx"
)

var topicState = bus.T("linefollow", "state")

type State uint8

const (
	Stopped State = iota
	Following
)

func (s State) String() string {
	if s == Following {
		return "following"
	}
	return "stopped"
}

type Controller struct {
	mu    sync.Mutex
	state State
	conn  *bus.Connection
}

// New returns a stopped controller. conn may be nil.
func New(conn *bus.Connection) *Controller {
	c := &Controller{conn: conn}
	c.publish(Stopped)
	return c
}

// StartStop toggles between following and stopped.
func (c *Controller) StartStop() State {
	c.mu.Lock()
	if c.state == Following {
		c.state = Stopped
	} else {
		c.state = Following
	}
	s := c.state
	c.mu.Unlock()
	c.publish(s)
	return s
}

// Stop forces the stopped state.
func (c *Controller) Stop() {
	c.mu.Lock()
	changed := c.state != Stopped
	c.state = Stopped
	c.mu.Unlock()
	if changed {
		c.publish(Stopped)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) publish(s State) {
	logx.Info("linefollow", "state", "state", s.String())
	if c.conn != nil {
		c.conn.Publish(c.conn.NewMessage(topicState, s.String(), true))
	}
}
