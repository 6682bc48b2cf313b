// Package keypadtest simulates a switch matrix on top of periph.io gpiotest
// pins.
//
// A row reads gpio.Low while a closed switch connects it to a column that is
// driven gpio.Low, and gpio.High otherwise.
package keypadtest

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type switchPos struct {
	row, column int
}

// Strobe is one level written to a column.
type Strobe struct {
	Column int
	Level  gpio.Level
}

type Matrix struct {
	mu      sync.Mutex
	closed  map[switchPos]bool
	rows    []*RowPin
	columns []*ColumnPin
	byName  map[string]gpio.PinIO

	logMu   sync.Mutex
	strobes []Strobe
}

// NewMatrix creates a matrix with the given row and column pin names.
func NewMatrix(rows, columns []string) *Matrix {
	m := &Matrix{
		closed: make(map[switchPos]bool),
		byName: make(map[string]gpio.PinIO),
	}
	for i, name := range rows {
		p := &RowPin{
			Pin:   gpiotest.Pin{N: name, Num: i, L: gpio.High},
			m:     m,
			index: i,
			edges: make(chan struct{}, 16),
		}
		m.rows = append(m.rows, p)
		m.byName[name] = p
	}
	for i, name := range columns {
		p := &ColumnPin{
			Pin:   gpiotest.Pin{N: name, Num: len(rows) + i, L: gpio.High},
			m:     m,
			index: i,
		}
		m.columns = append(m.columns, p)
		m.byName[name] = p
	}
	return m
}

// ByName resolves a pin of the matrix, or returns nil. It can be used as a
// keypad.PinSource.
func (m *Matrix) ByName(name string) gpio.PinIO {
	if p, ok := m.byName[name]; ok {
		return p
	}
	return nil
}

func (m *Matrix) Row(i int) *RowPin {
	return m.rows[i]
}

func (m *Matrix) Column(i int) *ColumnPin {
	return m.columns[i]
}

// Close closes the switch at (row, column) without raising an edge.
func (m *Matrix) Close(row, column int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[switchPos{row, column}] = true
}

// Open opens the switch at (row, column).
func (m *Matrix) Open(row, column int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.closed, switchPos{row, column})
}

// Release opens every switch.
func (m *Matrix) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = make(map[switchPos]bool)
}

// Press closes the switch at (row, column) and raises a rising edge on the
// row if it is watched for one.
func (m *Matrix) Press(row, column int) {
	m.Close(row, column)
	m.rows[row].Edge()
}

// Strobes returns every column write since the last ResetStrobes, across all
// columns, in the order the writes happened.
func (m *Matrix) Strobes() []Strobe {
	m.logMu.Lock()
	defer m.logMu.Unlock()
	return append([]Strobe(nil), m.strobes...)
}

func (m *Matrix) ResetStrobes() {
	m.logMu.Lock()
	defer m.logMu.Unlock()
	m.strobes = nil
}

func (m *Matrix) logStrobe(column int, l gpio.Level) {
	m.logMu.Lock()
	defer m.logMu.Unlock()
	m.strobes = append(m.strobes, Strobe{Column: column, Level: l})
}

func (m *Matrix) rowLevel(row int) gpio.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pos := range m.closed {
		if pos.row == row && m.columns[pos.column].Level() == gpio.Low {
			return gpio.Low
		}
	}
	return gpio.High
}

// RowPin is an input line of the matrix.
type RowPin struct {
	gpiotest.Pin
	m     *Matrix
	index int

	cfg    sync.Mutex
	edge   gpio.Edge
	halted bool
	edges  chan struct{}
	reads  int
	failIn map[gpio.Edge]error
}

func (p *RowPin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	if err := p.failIn[edge]; err != nil {
		return err
	}
	p.Pin.Lock()
	p.P = pull
	p.Pin.Unlock()
	p.edge = edge
	p.halted = false
	return nil
}

func (p *RowPin) Read() gpio.Level {
	p.cfg.Lock()
	p.reads++
	p.cfg.Unlock()
	return p.m.rowLevel(p.index)
}

// FailIn makes In calls requesting edge return err. A nil err clears it.
func (p *RowPin) FailIn(edge gpio.Edge, err error) {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	if p.failIn == nil {
		p.failIn = make(map[gpio.Edge]error)
	}
	p.failIn[edge] = err
}

// Reads returns how many times the row has been read.
func (p *RowPin) Reads() int {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	return p.reads
}

// Edge raises a rising edge if the row is watched for one.
func (p *RowPin) Edge() {
	p.cfg.Lock()
	watched := !p.halted && (p.edge == gpio.RisingEdge || p.edge == gpio.BothEdges)
	p.cfg.Unlock()
	if !watched {
		return
	}
	select {
	case p.edges <- struct{}{}:
	default:
	}
}

// Watched reports whether rising edges are currently delivered.
func (p *RowPin) Watched() bool {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	return !p.halted && p.edge != gpio.NoEdge
}

func (p *RowPin) WaitForEdge(timeout time.Duration) bool {
	var after <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		after = t.C
	}
	select {
	case <-p.edges:
		return true
	case <-after:
		return false
	}
}

func (p *RowPin) Halt() error {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	p.halted = true
	p.edge = gpio.NoEdge
	return nil
}

// Halted reports whether the row has been released.
func (p *RowPin) Halted() bool {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	return p.halted
}

func (p *RowPin) Out(gpio.Level) error {
	return fmt.Errorf("keypadtest: row %s is an input", p.N)
}

// ColumnPin is an output line of the matrix.
type ColumnPin struct {
	gpiotest.Pin
	m     *Matrix
	index int

	cfg     sync.Mutex
	halted  bool
	writes  []gpio.Level
	failOut error
}

func (p *ColumnPin) Out(l gpio.Level) error {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	if p.failOut != nil {
		return p.failOut
	}
	p.halted = false
	p.writes = append(p.writes, l)
	p.m.logStrobe(p.index, l)
	p.Pin.Lock()
	p.L = l
	p.Pin.Unlock()
	return nil
}

// Level returns the level the column is currently driven at.
func (p *ColumnPin) Level() gpio.Level {
	p.Pin.Lock()
	defer p.Pin.Unlock()
	return p.L
}

func (p *ColumnPin) Read() gpio.Level {
	return p.Level()
}

// Writes returns every level written to the column so far.
func (p *ColumnPin) Writes() []gpio.Level {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	return append([]gpio.Level(nil), p.writes...)
}

// FailOut makes every following Out call return err. A nil err clears it.
func (p *ColumnPin) FailOut(err error) {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	p.failOut = err
}

func (p *ColumnPin) Halt() error {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	p.halted = true
	return nil
}

// Halted reports whether the column has been released.
func (p *ColumnPin) Halted() bool {
	p.cfg.Lock()
	defer p.cfg.Unlock()
	return p.halted
}

func (p *ColumnPin) In(gpio.Pull, gpio.Edge) error {
	return fmt.Errorf("keypadtest: column %s is an output", p.N)
}

var (
	_ gpio.PinIO = &RowPin{}
	_ gpio.PinIO = &ColumnPin{}
)
