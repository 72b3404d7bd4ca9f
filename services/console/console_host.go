//go:build !rp2040

package console

import (
	"io"
	"os"
)

type stdio struct {
	io.Reader
	io.Writer
}

// Stdio is the host console.
func Stdio() Port { return stdio{Reader: os.Stdin, Writer: os.Stdout} }
