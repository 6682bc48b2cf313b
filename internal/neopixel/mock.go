//go:build !pi

package neopixel

import (
	log "github.com/sirupsen/logrus"
)

type mockEngine struct {
	colors []uint32
}

func (d *mockEngine) Init() error {
	return nil
}

func (d *mockEngine) Render() error {
	log.Debugf("neopixel: render %06x", d.colors)
	return nil
}

func (d *mockEngine) Wait() error {
	return nil
}

func (d *mockEngine) Fini() {
	log.Debug("neopixel: fini")
}

func (d *mockEngine) Leds(_ int) []uint32 {
	return d.colors
}

// NewLedController returns a controller that only logs.
func NewLedController(gpio int) (*LedController, error) {
	log.Debugf("neopixel: simulating LEDs on GPIO%d", gpio)
	return newLedController(&mockEngine{colors: make([]uint32, ledCount)})
}
