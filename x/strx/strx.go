package strx

import "strings"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// PadRight pads s with spaces to at least n bytes.
func PadRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// TrimLine strips a trailing CR/LF pair and surrounding blanks.
func TrimLine(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\r\n"))
}
