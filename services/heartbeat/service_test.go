package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"robocore-go/bus"
	"robocore-go/services/config"
	"robocore-go/services/event"
)

type counter struct{ n atomic.Int32 }

func (c *counter) Post(t event.Tag) {
	if t == event.LedHeartbeat {
		c.n.Add(1)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestPostsOnTick(t *testing.T) {
	b := bus.NewBus(4)
	c := &counter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	New(c, 5*time.Millisecond).Start(ctx, b.NewConnection("heartbeat"))
	waitFor(t, "three heartbeats", func() bool { return c.n.Load() >= 3 })
}

func TestRetainedConfigEnablesService(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("config")
	conn.Publish(conn.NewMessage(bus.T("config", "heartbeat"), config.Heartbeat{IntervalMs: 5}, true))

	c := &counter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(c, 0).Start(ctx, b.NewConnection("heartbeat"))
	waitFor(t, "heartbeat after config", func() bool { return c.n.Load() >= 2 })
}

func TestZeroIntervalDisables(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("config")
	c := &counter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	New(c, 5*time.Millisecond).Start(ctx, b.NewConnection("heartbeat"))
	waitFor(t, "first heartbeat", func() bool { return c.n.Load() >= 1 })

	conn.Publish(conn.NewMessage(bus.T("config", "heartbeat"), map[string]any{"interval_ms": 0}, true))
	time.Sleep(30 * time.Millisecond)
	before := c.n.Load()
	time.Sleep(40 * time.Millisecond)
	if after := c.n.Load(); after != before {
		t.Fatalf("heartbeat still running: %d -> %d", before, after)
	}
}

func TestInterval(t *testing.T) {
	if d, ok := interval(map[string]any{"interval_ms": float64(250)}); !ok || d != 250*time.Millisecond {
		t.Fatalf("float map: %v %v", d, ok)
	}
	if _, ok := interval("fast"); ok {
		t.Fatal("string payload accepted")
	}
	if _, ok := interval(config.Heartbeat{IntervalMs: -1}); ok {
		t.Fatal("negative interval accepted")
	}
}
