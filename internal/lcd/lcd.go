package lcd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

const (
	character = gpio.High
	command   = gpio.Low
)

var (
	signalPulse = 500 * time.Microsecond
	signalDelay = 500 * time.Microsecond
)

// Pins names the lines of an HD44780 panel driven over a 4 bit bus.
type Pins struct {
	RegisterSelect string
	Clock          string
	Data           [4]string
}

// HD44780 drives a 16x2 character panel.
type HD44780 struct {
	mu                sync.Mutex
	registerSelection gpio.PinOut
	clockEdge         gpio.PinOut
	dataPins          [4]gpio.PinOut
}

// Open looks up the panel lines with byName and initializes the panel.
func Open(p Pins, byName func(string) gpio.PinIO) (*HD44780, error) {
	log.Infoln("Initializing LCD")

	lookup := func(name string) (gpio.PinOut, error) {
		pin := byName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown LCD pin %q", name)
		}
		return pin, nil
	}

	h := &HD44780{}
	var err error
	if h.registerSelection, err = lookup(p.RegisterSelect); err != nil {
		return nil, err
	}
	if h.clockEdge, err = lookup(p.Clock); err != nil {
		return nil, err
	}
	for i, name := range p.Data {
		if h.dataPins[i], err = lookup(name); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.clockEdge.Out(gpio.Low); err != nil {
		return nil, err
	}
	for _, b := range []byte{0x33, 0x32, 0x28, 0x0C, 0x06, 0x01} {
		if err := h.sendByte(b, command); err != nil {
			return nil, fmt.Errorf("unable to initialize LCD: %w", err)
		}
	}
	return h, nil
}

func (h *HD44780) sendByte(bits byte, mode gpio.Level) error {
	if err := h.registerSelection.Out(mode); err != nil {
		return err
	}
	if err := h.pulseNibble(bits, 0x10); err != nil {
		return err
	}
	return h.pulseNibble(bits, 0x01)
}

// pulseNibble puts four bits of the byte, starting at mask, on the bus and
// clocks them in.
func (h *HD44780) pulseNibble(bits, mask byte) error {
	for i, pin := range h.dataPins {
		level := gpio.Low
		if bits&(mask<<uint(i)) != 0 {
			level = gpio.High
		}
		if err := pin.Out(level); err != nil {
			return err
		}
	}
	time.Sleep(signalDelay)
	if err := h.clockEdge.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(signalPulse)
	if err := h.clockEdge.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(signalDelay)
	return nil
}

func (h *HD44780) PrintLine(l Line, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.sendByte(byte(l), command); err != nil {
		return err
	}
	m := fmt.Sprintf("%-16s", msg)
	for i := 0; i < lineWidth; i++ {
		if err := h.sendByte(m[i], character); err != nil {
			return err
		}
	}
	return nil
}

func (h *HD44780) Clear(l Line) error {
	return h.PrintLine(l, "")
}

// Close releases the panel lines.
func (h *HD44780) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pins := append([]gpio.PinOut{h.registerSelection, h.clockEdge}, h.dataPins[:]...)
	var errs []error
	for _, p := range pins {
		if err := p.Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
