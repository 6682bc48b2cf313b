//go:build !pi

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	"github.com/callebjorkell/tphone-keypad/internal/keypad/keypadtest"
	log "github.com/sirupsen/logrus"
)

const (
	hardware = false
	// The simulated keypad runs on workstations without /dev/uinput access.
	defaultSink = "log"
)

const holdTime = 50 * time.Millisecond

// openPins simulates the keypad matrix. Every SIGHUP presses the next key.
func openPins(conf *Config) (keypad.PinSource, func(), error) {
	log.Infoln("No hardware, simulating the keypad. Send SIGHUP to press a key.")
	m := keypadtest.NewMatrix(conf.Pins.Rows, conf.Pins.Columns)

	stop := make(chan struct{})
	go simulatePresses(m, stop)
	return m.ByName, func() { close(stop) }, nil
}

func simulatePresses(m *keypadtest.Matrix, stop <-chan struct{}) {
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)
	defer signal.Stop(hupChan)

	next := 0
	for {
		select {
		case <-stop:
			return
		case <-hupChan:
		}

		row, column := next/keypad.Columns, next%keypad.Columns
		next = (next + 1) % (keypad.Rows * keypad.Columns)

		log.Debugf("Simulating press at (%d,%d)", row, column)
		m.Press(row, column)
		<-time.After(holdTime)
		m.Open(row, column)
	}
}
