//go:build !linux

package main

import (
	"robocore-go/errcode"
	"robocore-go/services/hal"
)

func openChip(string) (hal.PinFactory, func() error, error) {
	return nil, nil, &errcode.E{C: errcode.Unsupported, Op: "robotsim.gpiochip", Msg: "GPIO character devices need Linux"}
}
