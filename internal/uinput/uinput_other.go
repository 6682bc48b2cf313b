//go:build !linux

package uinput

import (
	"errors"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
)

var errUnsupported = errors.New("uinput is only available on linux")

func Open(string) keypad.SinkOpener {
	return func(*keypad.KeyMap) (keypad.Sink, error) {
		return nil, errUnsupported
	}
}
