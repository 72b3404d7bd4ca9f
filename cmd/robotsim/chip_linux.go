//go:build linux

package main

import "robocore-go/services/hal"

func openChip(name string) (hal.PinFactory, func() error, error) {
	cf, err := hal.NewChipFactory(name)
	if err != nil {
		return nil, nil, err
	}
	return cf, cf.Close, nil
}
