package identity

import (
	"os"

	"robocore-go/errcode"
)

// FileReader reads a hex identifier from a file, e.g. a device-tree serial
// number exported by the kernel.
type FileReader struct {
	Path string
}

func (f FileReader) ReadUID() (UID, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return UID{}, &errcode.E{C: errcode.UIDReadFailed, Op: "identity.file", Err: err}
	}
	return ParseUID(string(b))
}
