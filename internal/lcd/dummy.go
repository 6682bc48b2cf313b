package lcd

import (
	log "github.com/sirupsen/logrus"
)

// LogDisplay prints to the log instead of a panel.
type LogDisplay struct{}

func (LogDisplay) PrintLine(l Line, msg string) error {
	log.Infof("Print line %v: %q", l, msg)
	return nil
}

func (LogDisplay) Clear(l Line) error {
	log.Debugf("Clear line %v", l)
	return nil
}
