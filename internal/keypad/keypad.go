// Package keypad decodes a 5x3 matrix keypad wired to GPIO lines.
//
// Rows are inputs that raise a rising edge when a switch closes. On an edge
// the keypad checks the debounce gate, then strobes the columns one by one to
// find the closed switch, and reports the key as a tap to a Sink.
package keypad

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

var (
	ErrUnknownPin     = errors.New("unknown pin")
	ErrAlreadyStarted = errors.New("keypad is already started")
	ErrNotStarted     = errors.New("keypad is not started")
)

// edgeTimeout bounds each wait for an edge so watchers notice Stop.
var edgeTimeout = time.Second

// PinSource resolves a pin name such as "GPIO17". It returns nil for
// unknown names.
type PinSource func(name string) gpio.PinIO

type Options struct {
	Rows    [Rows]string
	Columns [Columns]string
	RowPull gpio.Pull

	// Pins defaults to gpioreg.ByName.
	Pins PinSource
	// Clock defaults to a clock started by Start.
	Clock Clock
	// OpenSink defaults to a LogSink.
	OpenSink SinkOpener
}

type Keypad struct {
	opts Options

	// mu is the scan lock. It serialises whole trigger sequences so column
	// strobes never interleave.
	mu      sync.Mutex
	clock   Clock
	gate    *Gate
	decoder *Decoder
	sink    Sink

	state   sync.Mutex
	running bool
	release []func()
	wg      sync.WaitGroup
}

func New(opts Options) *Keypad {
	if opts.Pins == nil {
		opts.Pins = gpioreg.ByName
	}
	if opts.OpenSink == nil {
		opts.OpenSink = func(*KeyMap) (Sink, error) { return LogSink{}, nil }
	}
	return &Keypad{opts: opts}
}

// Start configures every line, opens the sink and begins watching the rows.
// If any step fails, everything acquired so far is released in reverse order
// and the error is returned.
func (k *Keypad) Start() (err error) {
	k.state.Lock()
	defer k.state.Unlock()

	if k.running {
		return ErrAlreadyStarted
	}
	log.Infoln("Starting keypad driver")

	var release []func()
	defer func() {
		if err != nil {
			unwind(release)
		}
	}()

	clock := k.opts.Clock
	if clock == nil {
		clock = NewClock()
	}

	var columns [Columns]gpio.PinOut
	for i, name := range k.opts.Columns {
		p, err := k.pin(name)
		if err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		if err := p.Out(gpio.High); err != nil {
			return fmt.Errorf("column %d: unable to configure %s as output: %w", i, name, err)
		}
		release = append(release, func() { halt(p) })
		columns[i] = p
	}

	var rows [Rows]gpio.PinIn
	for i, name := range k.opts.Rows {
		p, err := k.pin(name)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := p.In(k.opts.RowPull, gpio.NoEdge); err != nil {
			return fmt.Errorf("row %d: unable to configure %s as input: %w", i, name, err)
		}
		release = append(release, func() { halt(p) })
		rows[i] = p
	}

	sink, err := k.opts.OpenSink(&DefaultKeyMap)
	if err != nil {
		return fmt.Errorf("unable to open event sink: %w", err)
	}
	if c, ok := sink.(interface{ Close() error }); ok {
		release = append(release, func() {
			if err := c.Close(); err != nil {
				log.Warn("Unable to close event sink: ", err)
			}
		})
	}

	for i, p := range rows {
		if err := p.In(k.opts.RowPull, gpio.RisingEdge); err != nil {
			return fmt.Errorf("row %d: unable to watch %s for rising edges: %w", i, p, err)
		}
		p := p
		release = append(release, func() {
			if err := p.In(k.opts.RowPull, gpio.NoEdge); err != nil {
				log.Debugf("Unable to stop edge detection on %s: %v", p, err)
			}
		})
	}

	k.mu.Lock()
	k.clock = clock
	k.gate = NewGate(clock.Millis())
	k.decoder = NewDecoder(rows, columns)
	k.sink = sink
	k.mu.Unlock()
	release = append(release, k.detach)

	stop := make(chan struct{})
	for _, p := range rows {
		k.wg.Add(1)
		go k.watch(p, stop)
	}
	release = append(release, func() {
		close(stop)
		k.wg.Wait()
	})

	k.release = release
	k.running = true
	log.Infoln("Keypad driver initialized")
	return nil
}

// Stop stops watching the rows, closes the sink and releases every line.
func (k *Keypad) Stop() error {
	k.state.Lock()
	defer k.state.Unlock()

	if !k.running {
		return ErrNotStarted
	}
	log.Infoln("Stopping keypad driver")
	unwind(k.release)
	k.release = nil
	k.running = false
	return nil
}

func (k *Keypad) pin(name string) (gpio.PinIO, error) {
	p := k.opts.Pins(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	return p, nil
}

func (k *Keypad) detach() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.decoder = nil
	k.sink = nil
}

func (k *Keypad) watch(p gpio.PinIn, stop <-chan struct{}) {
	defer k.wg.Done()
	log.Debugf("Watching %s", p)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if !p.WaitForEdge(edgeTimeout) {
			continue
		}

		select {
		case <-stop:
			return
		default:
			k.interrupt(p)
		}
	}
}

// interrupt runs one full trigger sequence for an edge on p.
func (k *Keypad) interrupt(p gpio.PinIn) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.decoder == nil {
		return
	}

	now := k.clock.Millis()
	if !k.gate.Accept(now) {
		log.Debugf("Ignoring bounce on %s at %dms", p, now)
		return
	}

	row := k.decoder.RowIndex(p)
	if row < 0 {
		log.Debugf("Edge on %s does not belong to any row", p)
		return
	}

	coord, ok := k.decoder.Decode(row)
	if !ok {
		log.Debugf("No closed switch found on row %d", row)
		return
	}

	key, ok := DefaultKeyMap.Lookup(coord)
	if !ok {
		return
	}
	log.Infof("Key %s pressed at %v", key.Label(), coord)
	k.report(key)
}

// report sends a tap. All four calls are made even when one fails, so a
// key is never left down.
func (k *Keypad) report(key KeyCode) {
	steps := []func() error{
		func() error { return k.sink.KeyDown(key) },
		k.sink.Sync,
		func() error { return k.sink.KeyUp(key) },
		k.sink.Sync,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			log.Warnf("Unable to report %v: %v", key, err)
		}
	}
}

func halt(p gpio.PinIO) {
	if err := p.Halt(); err != nil {
		log.Debugf("Unable to halt %s: %v", p, err)
	}
}

func unwind(release []func()) {
	for i := len(release) - 1; i >= 0; i-- {
		release[i]()
	}
}
