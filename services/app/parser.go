package app

import (
	"io"
	"strconv"

	"github.com/google/shlex"

	"robocore-go/errcode"
	"robocore-go/services/shell"
)

// ParseCommand is the "app" shell command group.
func (a *App) ParseCommand(cmd string, out io.Writer) (bool, errcode.Code) {
	args, err := shlex.Split(cmd)
	if err != nil || len(args) == 0 {
		return false, errcode.OK
	}
	if args[0] == "app" {
		args = args[1:]
	} else if len(args) != 1 || (args[0] != shell.CmdHelp && args[0] != shell.CmdStatus) {
		return false, errcode.OK
	}
	if len(args) != 1 {
		return false, errcode.OK
	}
	switch args[0] {
	case shell.CmdHelp:
		shell.SendHelpStr(out, "app", "Group of application commands")
		shell.SendHelpStr(out, "  help|status", "Print help or status information")
		return true, errcode.OK
	case shell.CmdStatus:
		a.printStatus(out)
		return true, errcode.OK
	}
	return false, errcode.OK
}

func (a *App) printStatus(out io.Writer) {
	shell.SendStatusStr(out, "app", "")
	shell.SendStatusStr(out, "  unit", a.unitName())
	board := a.deps.Board.Name
	if board == "" {
		board = "none"
	}
	shell.SendStatusStr(out, "  board", board)
	shell.SendStatusStr(out, "  mode", a.feat.Mode.String())
	shell.SendStatusStr(out, "  pending", strconv.Itoa(a.disp.Count()))
	if a.deps.Blink != nil {
		if ms, ok := a.deps.Blink.Active(); ok {
			shell.SendStatusStr(out, "  blink", strconv.Itoa(ms)+" ms")
		} else {
			shell.SendStatusStr(out, "  blink", "off")
		}
	}
	if f, ok := a.deps.Latch.Tripped(); ok {
		shell.SendStatusStr(out, "  fault", string(f.C))
	}
}
