package shell

import (
	"io"

	"github.com/google/shlex"

	"robocore-go/errcode"
	"robocore-go/services/fault"
	"robocore-go/x/strconvx"
	"robocore-go/x/strx"
)

// Blinker starts the LED blink activity.
type Blinker interface {
	Start(periodMs int) error
}

// Output is a readable LED line.
type Output interface {
	Toggle() bool
	Get() bool
}

// Router is the LED command group.
type Router struct {
	LED1, LED2 Output

	// Blink is nil on builds without a preemptive scheduler; the blink
	// command is then neither accepted nor listed.
	Blink Blinker

	// Fatal receives faults raised by command handlers.
	Fatal func(*fault.Error)
}

func (r *Router) ParseCommand(cmd string, out io.Writer) (bool, errcode.Code) {
	args, err := shlex.Split(cmd)
	if err != nil || len(args) == 0 {
		return false, errcode.OK
	}
	// The group prefix is optional: "LED tog" and "tog" are the same.
	if args[0] == "LED" {
		args = args[1:]
		if len(args) == 0 {
			return false, errcode.OK
		}
	}

	switch {
	case len(args) == 1 && args[0] == CmdHelp:
		r.printHelp(out)
		return true, errcode.OK
	case len(args) == 1 && args[0] == CmdStatus:
		r.printStatus(out)
		return true, errcode.OK
	case len(args) == 1 && args[0] == "tog":
		r.toggle()
		return true, errcode.OK
	case len(args) == 2 && args[0] == "blink" && r.Blink != nil:
		ms, ok := strconvx.ParsePositive(args[1])
		if !ok {
			return false, errcode.OK
		}
		return true, r.startBlink(ms)
	}
	return false, errcode.OK
}

func (r *Router) printHelp(out io.Writer) {
	SendHelpStr(out, "LED", "Group of LED commands")
	SendHelpStr(out, "  help|status", "Shows LED help or status")
	SendHelpStr(out, "  tog", "Switch LED 1 & 2 on/off")
	if r.Blink != nil {
		SendHelpStr(out, "  blink <ms>", "Blink LED 1 & 2 with period <ms>")
	}
}

func (r *Router) printStatus(out io.Writer) {
	SendStatusStr(out, "LED", "")
	if r.LED1 != nil {
		SendStatusStr(out, "  LED1", bit(r.LED1.Get()))
	}
	if r.LED2 != nil {
		SendStatusStr(out, "  LED2", bit(r.LED2.Get()))
	}
}

func (r *Router) toggle() {
	if r.LED1 != nil {
		r.LED1.Toggle()
	}
	if r.LED2 != nil {
		r.LED2.Toggle()
	}
}

func (r *Router) startBlink(ms int) errcode.Code {
	err := r.Blink.Start(ms)
	if f, ok := fault.As(err); ok {
		if r.Fatal != nil {
			r.Fatal(f)
		}
		return f.C
	}
	return errcode.Of(err)
}

func bit(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// Column where help text and status values start.
const column = 26

// SendHelpStr writes one help row: the command padded to the column, then
// "; " and the description.
func SendHelpStr(out io.Writer, cmd, text string) {
	io.WriteString(out, strx.PadRight(cmd, column)+"; "+text+EOL)
}

// SendStatusStr writes one status row. An empty value writes a group header.
func SendStatusStr(out io.Writer, name, value string) {
	if value == "" {
		io.WriteString(out, name+EOL)
		return
	}
	io.WriteString(out, strx.PadRight(name, column)+": "+value+EOL)
}
