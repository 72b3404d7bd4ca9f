package robot

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"robocore-go/errcode"
	"robocore-go/services/config"
	"robocore-go/services/fault"
	"robocore-go/services/hal"
	"robocore-go/services/identity"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

var unitL4 = identity.KnownUnits[2].UID

func embedded(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func assemble(t *testing.T, cfg config.Config, id identity.Reader) (*Robot, *hal.FakeFactory, *syncBuffer) {
	t.Helper()
	pins := hal.NewFakeFactory()
	out := &syncBuffer{}
	r, err := Assemble(cfg, Platform{Pins: pins, Identity: id, Console: out})
	if err != nil {
		t.Fatal(err)
	}
	return r, pins, out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestAssembleFromEmbeddedConfig(t *testing.T) {
	r, _, _ := assemble(t, embedded(t), identity.Static(unitL4))
	if r.LED2 == nil || r.Blink == nil {
		t.Fatal("preemptive build with LED2 should have a blink manager")
	}
	if r.Keys == nil || r.Keys.Len() != 7 {
		t.Fatal("expected seven keys")
	}
	if r.Motors == nil || r.Motors.Left == nil || r.Motors.Right == nil {
		t.Fatal("motors not configured")
	}
	if r.Follow == nil {
		t.Fatal("line follow not wired")
	}
}

func TestCooperativeBuildHasNoBlink(t *testing.T) {
	cfg := embedded(t)
	cfg.App.Mode = config.ModeCooperative
	r, _, _ := assemble(t, cfg, identity.Static(unitL4))
	if r.Blink != nil {
		t.Fatal("blink manager on a cooperative build")
	}
	if handled, _ := r.Shell.Exec("blink 100"); handled {
		t.Fatal("blink accepted on a cooperative build")
	}
}

func TestUnknownBoardRejected(t *testing.T) {
	cfg := embedded(t)
	cfg.Device.Board = "robo_v9"
	_, err := Assemble(cfg, Platform{Pins: hal.NewFakeFactory(), Identity: identity.Static{}})
	if errcode.Of(err) != errcode.UnknownBoard {
		t.Fatalf("err = %v", err)
	}
}

func TestKeyPressReachesConsole(t *testing.T) {
	for _, mode := range []string{config.ModePreemptive, config.ModeCooperative} {
		cfg := embedded(t)
		cfg.App.Mode = mode
		cfg.Heartbeat.IntervalMs = 0
		r, pins, out := assemble(t, cfg, identity.Static(unitL4))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- r.Start(ctx, nil) }()

		waitFor(t, mode+" boot", func() bool { return r.Motors.Left.Inverted() })
		pins.Fake(cfg.Pins.Keys[0]).Set(false) // SW1 down
		waitFor(t, mode+" key press", func() bool { return strings.Contains(out.String(), "SW1 pressed\r\n") })

		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: err = %v", mode, err)
		}
		if r.Motors.Right.Inverted() {
			t.Fatalf("%s: right motor inverted", mode)
		}
	}
}

func TestConsoleCommandsRun(t *testing.T) {
	cfg := embedded(t)
	r, _, out := assemble(t, cfg, identity.Static(unitL4))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, strings.NewReader("tog\napp status\n")) }()

	waitFor(t, "status output", func() bool { return strings.Contains(out.String(), "  unit                    : L4\r\n") })
	if !r.LED2.Get() {
		t.Fatal("tog did not reach LED2")
	}
	cancel()
	<-done
}

func TestIdentityFaultStopsStart(t *testing.T) {
	cfg := embedded(t)
	failing := identity.ReaderFunc(func() (identity.UID, error) { return identity.UID{}, errors.New("no flash") })
	r, pins, _ := assemble(t, cfg, failing)

	err := r.Start(context.Background(), nil)
	if f, ok := fault.As(err); !ok || f.C != errcode.UIDReadFailed {
		t.Fatalf("err = %v", err)
	}
	if pins.Fake(cfg.Pins.LED1).Writes() != 0 {
		t.Fatal("LED1 written after an identity fault")
	}
	if r.Motors.Left.Inverted() {
		t.Fatal("profile applied after an identity fault")
	}
}
