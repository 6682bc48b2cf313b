package keypad

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Sink receives decoded keys. Every decoded key produces KeyDown, Sync,
// KeyUp, Sync in that order. Implementations must not block for long, they
// are called with the scan lock held.
type Sink interface {
	KeyDown(k KeyCode) error
	KeyUp(k KeyCode) error
	Sync() error
}

// SinkOpener creates the sink at start-up. The keymap lists the codes the
// sink will be asked to report.
type SinkOpener func(m *KeyMap) (Sink, error)

// KeyEvent is a single key transition.
type KeyEvent struct {
	Code    KeyCode
	Pressed bool
}

func (e KeyEvent) String() string {
	action := "pressed"
	if !e.Pressed {
		action = "released"
	}
	return fmt.Sprintf("Key %v was %v", e.Code.Label(), action)
}

var ErrSinkClosed = errors.New("sink is closed")

// ChanSink publishes key transitions on a buffered channel. Events are
// dropped rather than blocking the scan when the consumer falls behind.
type ChanSink struct {
	mu     sync.Mutex
	closed bool
	c      chan KeyEvent
}

func NewChanSink(size int) *ChanSink {
	return &ChanSink{c: make(chan KeyEvent, size)}
}

// Events returns the channel the key transitions are published on.
func (s *ChanSink) Events() <-chan KeyEvent {
	return s.c
}

func (s *ChanSink) KeyDown(k KeyCode) error {
	return s.send(KeyEvent{Code: k, Pressed: true})
}

func (s *ChanSink) KeyUp(k KeyCode) error {
	return s.send(KeyEvent{Code: k, Pressed: false})
}

func (s *ChanSink) Sync() error {
	return nil
}

func (s *ChanSink) send(e KeyEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("dropped %v: %w", e, ErrSinkClosed)
	}
	select {
	case s.c <- e:
		return nil
	default:
		return fmt.Errorf("dropped %v: consumer is not keeping up", e)
	}
}

// Close closes the event channel. Later transitions fail with
// ErrSinkClosed, and closing again is a no-op.
func (s *ChanSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.c)
	}
	return nil
}

// LogSink writes key transitions to the log.
type LogSink struct{}

func (LogSink) KeyDown(k KeyCode) error {
	log.Infof("Key down: %v", k)
	return nil
}

func (LogSink) KeyUp(k KeyCode) error {
	log.Infof("Key up: %v", k)
	return nil
}

func (LogSink) Sync() error {
	return nil
}

type multiSink []Sink

// MultiSink fans every call out to all sinks. All sinks are called even if
// one of them fails.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) KeyDown(k KeyCode) error {
	return m.each(func(s Sink) error { return s.KeyDown(k) })
}

func (m multiSink) KeyUp(k KeyCode) error {
	return m.each(func(s Sink) error { return s.KeyUp(k) })
}

func (m multiSink) Sync() error {
	return m.each(Sink.Sync)
}

func (m multiSink) each(f func(Sink) error) error {
	var errs []error
	for _, s := range m {
		if err := f(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that implements io.Closer.
func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
