package neopixel

import (
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	flashHold = 80 * time.Millisecond
	fadeStep  = 10 * time.Millisecond
)

const fadeSteps = 10

// Flash lights color and fades it out. A newer Flash cuts the fade of an
// older one short.
func (l *LedController) Flash(color uint32) {
	done := l.queue.Queue()
	defer done()

	log.Debugf("Flashing color %06x", color)
	if err := l.setColor(color); err != nil {
		log.Warn("Unable to flash LEDs: ", err)
		return
	}
	<-time.After(flashHold)

	tick := time.NewTicker(fadeStep)
	defer tick.Stop()
	for step := fadeSteps - 1; step >= 0; step-- {
		if l.queue.IsInterrupted() {
			log.Debug("Flash interrupted.")
			return
		}
		if err := l.setColor(withBrightness(color, uint32(step*100/fadeSteps))); err != nil {
			log.Warn("Unable to fade LEDs: ", err)
			return
		}
		<-tick.C
	}
}
