// Package heartbeat posts the periodic LED heartbeat event.
package heartbeat

import (
	"context"
	"time"

	"robocore-go/bus"
	"robocore-go/services/config"
	"robocore-go/services/event"
	"robocore-go/x/logx"
	"robocore-go/x/timex"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

// Poster receives the heartbeat tag.
type Poster interface {
	Post(event.Tag)
}

type Service struct {
	post  Poster
	every time.Duration
}

// New returns a service ticking every interval. A zero interval keeps the
// service idle until configuration enables it.
func New(post Poster, every time.Duration) *Service {
	return &Service{post: post, every: every}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(time.Hour)
	defer tick.Stop()
	s.apply(tick, s.every)

	for {
		select {
		case <-ctx.Done():
			logx.Info("heartbeat", "stopping")
			return
		case <-tick.C:
			if s.every > 0 {
				s.post.Post(event.LedHeartbeat)
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if every, ok := interval(msg.Payload); ok && every != s.every {
				s.apply(tick, every)
				logx.Info("heartbeat", "interval changed", "ms", every.Milliseconds())
			}
		}
	}
}

func (s *Service) apply(tick *time.Ticker, every time.Duration) {
	s.every = every
	if every > 0 {
		tick.Reset(every)
	} else {
		tick.Reset(time.Hour)
	}
}

// interval accepts the typed config section or a decoded map.
func interval(p any) (time.Duration, bool) {
	switch v := p.(type) {
	case config.Heartbeat:
		return timex.Ms(v.IntervalMs), v.IntervalMs >= 0
	case map[string]any:
		switch ms := v["interval_ms"].(type) {
		case int:
			return timex.Ms(ms), ms >= 0
		case int64:
			return timex.Ms(int(ms)), ms >= 0
		case float64:
			return timex.Ms(int(ms)), ms >= 0
		}
	}
	return 0, false
}

// Start runs the service until ctx ends.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
