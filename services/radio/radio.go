// Package radio sends the remote-control messages emitted on key presses.
//
// The wire format belongs to the transport. The application only names the
// message type, the destination and the payload bytes, and ignores any
// non-OK result.
package radio

import (
	"robocore-go/bus"
	"robocore-go/errcode"
	"robocore-go/x/logx"
)

type MsgType uint8

const (
	MsgRight MsgType = iota + 1
	MsgLeft
	MsgBackward
	MsgStop
	MsgForward
	MsgLineFollow
	MsgLapPoint
)

var msgNames = [...]string{
	MsgRight:      "right",
	MsgLeft:       "left",
	MsgBackward:   "backward",
	MsgStop:       "stop",
	MsgForward:    "forward",
	MsgLineFollow: "linefollow",
	MsgLapPoint:   "lap_point",
}

func (m MsgType) String() string {
	if int(m) < len(msgNames) && msgNames[m] != "" {
		return msgNames[m]
	}
	return "unknown"
}

// Addr is a node address on the radio network.
type Addr uint8

const (
	Broadcast  Addr = 0xFF
	LapCounter Addr = 0x12
)

type Flags uint8

const (
	FlagsNone  Flags = 0
	FlagAckReq Flags = 1 << 0
)

// Transport delivers one message. Results are codes, never panics.
type Transport interface {
	Send(payload []byte, typ MsgType, dst Addr, flags Flags) errcode.Code
}

// Packet is the bus representation of a sent message.
type Packet struct {
	Type    MsgType
	Dst     Addr
	Flags   Flags
	Payload []byte
}

// BusTransport publishes every message on radio/tx/<dst>/<type>. It is the
// loopback used by the simulator and by builds without a radio.
type BusTransport struct {
	conn *bus.Connection
}

func NewBusTransport(conn *bus.Connection) *BusTransport {
	return &BusTransport{conn: conn}
}

func (t *BusTransport) Send(payload []byte, typ MsgType, dst Addr, flags Flags) errcode.Code {
	if t.conn == nil {
		return errcode.NotConnected
	}
	p := Packet{Type: typ, Dst: dst, Flags: flags, Payload: append([]byte(nil), payload...)}
	t.conn.Publish(t.conn.NewMessage(bus.T("radio", "tx", int(dst), typ.String()), p, false))
	logx.Debug("radio", "sent", "type", typ.String(), "dst", int(dst), "len", len(payload))
	return errcode.OK
}

// Discard is the Transport of builds without a radio.
type Discard struct{}

func (Discard) Send([]byte, MsgType, Addr, Flags) errcode.Code { return errcode.Unsupported }
