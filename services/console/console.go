// Package console provides the byte stream the shell reads from and
// writes to: the UART on the robot, stdio on a host.
package console

import (
	"context"
	"io"
)

// Port is a console stream.
type Port interface {
	io.Reader
	io.Writer
}

// receiver is the context-aware read of a UART driver.
type receiver interface {
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
	Write(p []byte) (int, error)
}

// stream adapts a receiver to io.Reader, bounded by ctx.
type stream struct {
	ctx context.Context
	rx  receiver
}

func (s *stream) Read(p []byte) (int, error) {
	for {
		n, err := s.rx.RecvSomeContext(s.ctx, p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (s *stream) Write(p []byte) (int, error) { return s.rx.Write(p) }
