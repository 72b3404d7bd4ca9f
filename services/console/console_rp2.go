//go:build rp2040

package console

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"robocore-go/errcode"
)

// Config selects the console UART.
type Config struct {
	ID   string // "uart0" or "uart1"
	Baud uint32
	TX   machine.Pin
	RX   machine.Pin
}

// OpenUART configures the UART and returns it as a console Port.
func OpenUART(ctx context.Context, cfg Config) (Port, error) {
	var hw *uartx.UART
	switch cfg.ID {
	case "uart0", "":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "console.uart", Msg: cfg.ID}
	}
	// Zero values fall back to the uartx defaults.
	if err := hw.Configure(uartx.UARTConfig{BaudRate: cfg.Baud, TX: cfg.TX, RX: cfg.RX}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "console.uart", Err: err}
	}
	return &stream{ctx: ctx, rx: hw}, nil
}
