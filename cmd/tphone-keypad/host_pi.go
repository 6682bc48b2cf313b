//go:build pi

package main

import (
	"fmt"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	hardware    = true
	defaultSink = "uinput"
)

// openPins initializes the periph host drivers and resolves pins by their
// BCM names.
func openPins(*Config) (keypad.PinSource, func(), error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("unable to initialize periph: %w", err)
	}
	return gpioreg.ByName, func() {}, nil
}
