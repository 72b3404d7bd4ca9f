//go:build rp2040

package identity

import (
	"machine"

	"robocore-go/errcode"
)

// MachineReader reads the flash unique id. Shorter ids are right-aligned
// into the UID so table entries can be written in full.
type MachineReader struct{}

func (MachineReader) ReadUID() (UID, error) {
	var u UID
	raw := machine.DeviceID()
	if len(raw) == 0 || len(raw) > UIDLen {
		return u, &errcode.E{C: errcode.UIDReadFailed, Op: "identity.machine"}
	}
	copy(u[UIDLen-len(raw):], raw)
	return u, nil
}
