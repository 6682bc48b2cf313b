//go:build pi

package neopixel

import (
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
)

// NewLedController opens the WS281x strip whose data line is BCM pin gpio.
func NewLedController(gpio int) (*LedController, error) {
	opt := ws.DefaultOptions
	opt.Channels[0].GpioPin = gpio
	opt.Channels[0].Brightness = brightness
	opt.Channels[0].LedCount = ledCount

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, err
	}
	return newLedController(dev)
}
