//go:build !rp2040

package radio

import (
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"robocore-go/errcode"
	"robocore-go/x/fmtx"
	"robocore-go/x/logx"
)

// publisher is the part of mqtt.Client the transport needs.
type publisher interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Prefix   string
	Timeout  time.Duration
}

// MQTTTransport forwards messages to an MQTT broker, one topic per
// destination and type: <prefix>/radio/<dst hex>/<type>. The payload is
// [flags, data...].
//
// Send never waits for the broker. Completion is watched off the caller's
// goroutine and failures are only logged and counted.
type MQTTTransport struct {
	client  publisher
	prefix  string
	timeout time.Duration // how long a watcher waits for completion
	failed  atomic.Uint32
}

// DialMQTT connects to the broker and returns the transport.
func DialMQTT(cfg MQTTConfig) (*MQTTTransport, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetWill(cfg.Prefix+"/radio/status", "offline", 0, true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		c.Publish(cfg.Prefix+"/radio/status", 0, true, "online")
		logx.Info("radio", "mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logx.Warn("radio", "mqtt connection lost", "err", err.Error())
	})

	c := mqtt.NewClient(opts)
	if tok := c.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, &errcode.E{C: errcode.NotConnected, Op: "radio.mqtt", Err: tok.Error()}
	}
	return newMQTT(c, cfg.Prefix, cfg.Timeout), nil
}

func newMQTT(c publisher, prefix string, timeout time.Duration) *MQTTTransport {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &MQTTTransport{client: c, prefix: prefix, timeout: timeout}
}

// Topic returns the topic a message to dst of type typ is published on.
func (t *MQTTTransport) Topic(typ MsgType, dst Addr) string {
	return fmtx.Sprintf("%s/radio/%02x/%s", t.prefix, uint8(dst), typ.String())
}

func (t *MQTTTransport) Send(payload []byte, typ MsgType, dst Addr, flags Flags) errcode.Code {
	if !t.client.IsConnected() {
		return errcode.NotConnected
	}
	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, byte(flags))
	frame = append(frame, payload...)

	qos := byte(0)
	if flags&FlagAckReq != 0 {
		qos = 1
	}
	topic := t.Topic(typ, dst)
	tok := t.client.Publish(topic, qos, false, frame)
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			t.fail(topic, err.Error())
			return errcode.SendFailed
		}
		return errcode.OK
	default:
	}
	go t.watch(tok, topic)
	return errcode.OK
}

func (t *MQTTTransport) watch(tok mqtt.Token, topic string) {
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			t.fail(topic, err.Error())
		}
	case <-timer.C:
		t.fail(topic, "publish timed out")
	}
}

func (t *MQTTTransport) fail(topic, reason string) {
	t.failed.Add(1)
	logx.Debug("radio", "mqtt publish failed", "topic", topic, "err", reason)
}

// Failed reports how many publishes the broker refused or never completed.
func (t *MQTTTransport) Failed() uint32 { return t.failed.Load() }

// Close disconnects when the transport owns a real client.
func (t *MQTTTransport) Close() {
	if c, ok := t.client.(mqtt.Client); ok {
		c.Disconnect(250)
	}
}
