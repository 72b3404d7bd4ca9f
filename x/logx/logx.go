// Package logx is the scoped, levelled logger shared by all services.
// Host builds log through zerolog; rp2040 builds print with println.
package logx

import "strings"

type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	Disabled
)

// Options configures the process-wide logger.
type Options struct {
	Level   Level
	File    string // host only: rotate into this file instead of stdout
	MaxMB   int    // host only: rotation size, default 4
	NoColor bool
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	case "off", "disabled", "none":
		return Disabled, true
	default:
		return InfoLevel, false
	}
}
