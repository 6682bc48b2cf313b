package neopixel

import (
	log "github.com/sirupsen/logrus"
)

const (
	brightness = 90
	ledCount   = 1
)

type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// LedController lights the keypad indicator LEDs.
type LedController struct {
	ws    wsEngine
	queue Queue
}

func newLedController(ws wsEngine) (*LedController, error) {
	if err := ws.Init(); err != nil {
		return nil, err
	}
	return &LedController{ws: ws}, nil
}

func (l *LedController) setColor(color uint32) error {
	leds := l.ws.Leds(0)
	for i := range leds {
		leds[i] = color
	}
	if err := l.ws.Render(); err != nil {
		return err
	}
	return l.ws.Wait()
}

func (l *LedController) clear() {
	if err := l.setColor(0); err != nil {
		log.Warn("Unable to clear LEDs: ", err)
	}
}

// Close turns the LEDs off and releases the driver.
func (l *LedController) Close() {
	done := l.queue.Queue()
	defer done()

	l.clear()
	l.ws.Fini()
}

// withBrightness scales every channel of color to light percent.
func withBrightness(color, light uint32) uint32 {
	if light >= 100 {
		return color
	}
	r := (color >> 16 & 0xff) * light / 100
	g := (color >> 8 & 0xff) * light / 100
	b := (color & 0xff) * light / 100
	return r<<16 | g<<8 | b
}
