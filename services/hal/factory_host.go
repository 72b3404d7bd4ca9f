//go:build !linux && !rp2040

package hal

// DefaultPinFactory returns in-memory pins on hosts without a GPIO device.
func DefaultPinFactory() (PinFactory, error) { return NewFakeFactory(), nil }
