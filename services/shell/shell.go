// Package shell is the line-oriented command console.
//
// A Shell owns an ordered list of Parsers. "help" and "status" are offered
// to every parser so each group prints its own section; any other line
// stops at the first parser that handles it.
package shell

import (
	"bufio"
	"context"
	"io"
	"sync"

	"robocore-go/errcode"
	"robocore-go/x/logx"
	"robocore-go/x/strx"
)

const (
	EOL       = "\r\n"
	CmdHelp   = "help"
	CmdStatus = "status"
)

// Parser handles one command group. Unmatched input returns
// (false, errcode.OK) and writes nothing.
type Parser interface {
	ParseCommand(cmd string, out io.Writer) (handled bool, code errcode.Code)
}

type ParserFunc func(cmd string, out io.Writer) (bool, errcode.Code)

func (f ParserFunc) ParseCommand(cmd string, out io.Writer) (bool, errcode.Code) { return f(cmd, out) }

type Shell struct {
	mu      sync.Mutex
	out     io.Writer
	parsers []Parser
	lines   chan string
}

// New returns a Shell writing to out.
func New(out io.Writer, parsers ...Parser) *Shell {
	return &Shell{out: out, parsers: parsers, lines: make(chan string, 8)}
}

// Add appends a parser. Call before input starts.
func (s *Shell) Add(p Parser) {
	s.mu.Lock()
	s.parsers = append(s.parsers, p)
	s.mu.Unlock()
}

// SendString writes an application message to the console.
func (s *Shell) SendString(msg string) {
	s.mu.Lock()
	io.WriteString(s.out, msg)
	s.mu.Unlock()
}

// Exec runs one command line and reports whether any parser handled it.
// The first non-OK code is returned.
func (s *Shell) Exec(line string) (bool, errcode.Code) {
	cmd := strx.TrimLine(line)
	if cmd == "" {
		return false, errcode.OK
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	broadcast := cmd == CmdHelp || cmd == CmdStatus
	if broadcast {
		s.printOwn(cmd)
	}
	handled, code := false, errcode.OK
	for _, p := range s.parsers {
		h, c := p.ParseCommand(cmd, s.out)
		if c != errcode.OK && code == errcode.OK {
			code = c
		}
		if h {
			handled = true
			if !broadcast {
				break
			}
		}
	}
	switch {
	case broadcast:
		handled = true
	case !handled:
		io.WriteString(s.out, "*** Failed or unknown command: "+cmd+EOL)
		io.WriteString(s.out, "*** Type help to get a list of available commands"+EOL)
	case code != errcode.OK:
		io.WriteString(s.out, "*** "+cmd+": "+string(code)+EOL)
	}
	if code != errcode.OK {
		logx.Warn("shell", "command failed", "cmd", cmd, "code", string(code))
	}
	return handled, code
}

func (s *Shell) printOwn(cmd string) {
	if cmd == CmdHelp {
		io.WriteString(s.out, "--------------------------------------------------------------"+EOL)
		SendHelpStr(s.out, "Shell", "Group of shell commands")
		SendHelpStr(s.out, "  help|status", "Print help or status information")
		return
	}
	io.WriteString(s.out, "--------------------------------------------------------------"+EOL)
}

// Feed reads lines from r in the background until r fails or ctx ends.
// Lines are executed by Serve or Poll on the caller's goroutine.
func (s *Shell) Feed(ctx context.Context, r io.Reader) {
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logx.Warn("shell", "console read ended", "err", err.Error())
		}
	}()
}

// Poll executes every buffered line without blocking and returns how many
// ran. Used by the cooperative loop.
func (s *Shell) Poll() int {
	n := 0
	for {
		select {
		case l := <-s.lines:
			s.Exec(l)
			n++
		default:
			return n
		}
	}
}

// Serve executes fed lines until ctx ends.
func (s *Shell) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l := <-s.lines:
			s.Exec(l)
		}
	}
}
