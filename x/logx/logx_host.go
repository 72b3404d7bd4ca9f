//go:build !rp2040

package logx

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	closer io.Closer
)

// Configure replaces the process logger. Safe to call more than once.
func Configure(o Options) {
	var out io.Writer
	var c io.Closer
	if o.File != "" {
		maxMB := o.MaxMB
		if maxMB <= 0 {
			maxMB = 4
		}
		lj := &lumberjack.Logger{Filename: o.File, MaxSize: maxMB, MaxBackups: 3}
		out, c = lj, lj
	} else {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: o.NoColor}
	}
	l := zerolog.New(out).With().Timestamp().Logger().Level(toZerolog(o.Level))

	mu.Lock()
	old := closer
	logger, closer = l, c
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

// SetOutput routes logs to w; used by tests to capture output.
func SetOutput(w io.Writer, lvl Level) {
	mu.Lock()
	logger = zerolog.New(w).Level(toZerolog(lvl))
	mu.Unlock()
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case Disabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func get() *zerolog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return &l
}

func Debug(scope, msg string, kv ...any) { emit(get().Debug(), scope, msg, kv) }
func Info(scope, msg string, kv ...any)  { emit(get().Info(), scope, msg, kv) }
func Warn(scope, msg string, kv ...any)  { emit(get().Warn(), scope, msg, kv) }

func Error(scope, msg string, err error, kv ...any) {
	emit(get().Error().Err(err), scope, msg, kv)
}

func emit(ev *zerolog.Event, scope, msg string, kv []any) {
	if ev == nil {
		return
	}
	ev = ev.Str("scope", scope)
	if len(kv) > 0 {
		ev = ev.Fields(kv)
	}
	ev.Msg(msg)
}
