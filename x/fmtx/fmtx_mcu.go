//go:build rp2040

package fmtx

import (
	"io"

	"robocore-go/x/strconvx"
)

// DefaultOutput receives Printf. The firmware entry points it at the
// console UART.
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Sprintf formats %s %v %d %x and %%, with an optional width and the '-'
// and '0' flags. Anything else is copied through as the verb.
func Sprintf(format string, a ...any) string {
	out := make([]byte, 0, len(format)+16)
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			out = append(out, c)
			continue
		}
		i++
		if format[i] == '%' {
			out = append(out, '%')
			continue
		}
		var left, zero bool
		for ; i < len(format) && (format[i] == '-' || format[i] == '0'); i++ {
			left = left || format[i] == '-'
			zero = zero || format[i] == '0'
		}
		width := 0
		for ; i < len(format) && '0' <= format[i] && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}
		if i == len(format) || next == len(a) {
			break
		}
		arg := a[next]
		next++

		var s string
		switch format[i] {
		case 's', 'v':
			s, zero = text(arg), false
		case 'd':
			s = strconvx.FormatInt(signed(arg), 10)
		case 'x':
			s = strconvx.FormatUint(unsigned(arg), 16)
		default:
			s, zero = "%"+string(format[i]), false
		}
		out = pad(out, s, width, left, zero)
	}
	return string(out)
}

func Printf(format string, a ...any) (int, error) {
	return io.WriteString(DefaultOutput, Sprintf(format, a...))
}

func pad(out []byte, s string, width int, left, zero bool) []byte {
	fill := byte(' ')
	if zero && !left {
		fill = '0'
	}
	if left {
		out = append(out, s...)
	}
	for n := len(s); n < width; n++ {
		out = append(out, fill)
	}
	if !left {
		out = append(out, s...)
	}
	return out
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case interface{ String() string }:
		return x.String()
	case error:
		return x.Error()
	case int, int8, int16, int32, int64:
		return strconvx.FormatInt(signed(x), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconvx.FormatUint(unsigned(x), 10)
	}
	return "?"
}

func signed(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return int64(unsigned(v))
}

func unsigned(v any) uint64 {
	switch x := v.(type) {
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case int:
		return uint64(x)
	case int64:
		return uint64(x)
	}
	return 0
}
