//go:build linux

// Package uinput reports keypad keys through a virtual Linux keyboard.
package uinput

import (
	"fmt"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	evdev "github.com/holoplot/go-evdev"
	log "github.com/sirupsen/logrus"
)

const (
	busVirtual = 0x06
	vendorID   = 0x1209
	productID  = 0x7e1f
)

type eventWriter interface {
	WriteOne(event *evdev.InputEvent) error
	Close() error
}

// Keyboard is a keypad.Sink backed by a uinput device.
type Keyboard struct {
	dev eventWriter
}

// Open returns a keypad.SinkOpener that registers a virtual keyboard called
// name, capable of exactly the keys of the keymap.
func Open(name string) keypad.SinkOpener {
	return func(m *keypad.KeyMap) (keypad.Sink, error) {
		log.Infof("Registering input device %q", name)
		dev, err := evdev.CreateDevice(name, evdev.InputID{
			BusType: busVirtual,
			Vendor:  vendorID,
			Product: productID,
			Version: 1,
		}, capabilities(m))
		if err != nil {
			return nil, fmt.Errorf("unable to create uinput device: %w", err)
		}
		return &Keyboard{dev: dev}, nil
	}
}

func capabilities(m *keypad.KeyMap) map[evdev.EvType][]evdev.EvCode {
	var keys []evdev.EvCode
	for _, k := range m.Codes() {
		keys = append(keys, evdev.EvCode(k))
	}
	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
	}
}

func (k *Keyboard) KeyDown(c keypad.KeyCode) error {
	return k.write(evdev.EV_KEY, evdev.EvCode(c), 1)
}

func (k *Keyboard) KeyUp(c keypad.KeyCode) error {
	return k.write(evdev.EV_KEY, evdev.EvCode(c), 0)
}

func (k *Keyboard) Sync() error {
	return k.write(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

func (k *Keyboard) write(t evdev.EvType, c evdev.EvCode, value int32) error {
	return k.dev.WriteOne(&evdev.InputEvent{Type: t, Code: c, Value: value})
}

// Close unregisters the virtual keyboard.
func (k *Keyboard) Close() error {
	log.Debug("Unregistering input device")
	return k.dev.Close()
}
