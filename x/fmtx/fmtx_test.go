package fmtx

import (
	"bytes"
	"testing"
)

// These cases run against both the fmt delegate and the MCU formatter,
// so they stay inside the subset the MCU formatter supports.
func TestSprintfSubset(t *testing.T) {
	type C struct {
		fmt  string
		args []any
		want string
	}
	for _, c := range []C{
		{"hello %s", []any{"world"}, "hello world"},
		{"num %d hex %x", []any{-7, 255}, "num -7 hex ff"},
		{"literal %%", nil, "literal %"},
		{"  %-8s; %s", []any{"tog", "Toggle"}, "  tog     ; Toggle"},
		{"[%5s]", []any{"ab"}, "[   ab]"},
		{"robot/radio/%02x/%s", []any{uint8(0x12), "lap_point"}, "robot/radio/12/lap_point"},
		{"robot/radio/%02x/%s", []any{uint8(0xff), "stop"}, "robot/radio/ff/stop"},
		{"%v pressed", []any{3}, "3 pressed"},
	} {
		if got := Sprintf(c.fmt, c.args...); got != c.want {
			t.Fatalf("Sprintf(%q, ...) = %q, want %q", c.fmt, got, c.want)
		}
	}
}

func TestPrintGoesToDefaultOutput(t *testing.T) {
	var buf bytes.Buffer
	old := DefaultOutput
	DefaultOutput = &buf
	defer func() { DefaultOutput = old }()

	if _, err := Printf("v=%d", 7); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "v=7" {
		t.Fatalf("Printf wrote %q", got)
	}
}
