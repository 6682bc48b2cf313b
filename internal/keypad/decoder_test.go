package keypad

import (
	"errors"
	"testing"

	"github.com/callebjorkell/tphone-keypad/internal/keypad/keypadtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

var (
	testRows    = [Rows]string{"GPIO14", "GPIO15", "GPIO18", "GPIO23", "GPIO24"}
	testColumns = [Columns]string{"GPIO17", "GPIO27", "GPIO22"}
)

func newTestMatrix() *keypadtest.Matrix {
	return keypadtest.NewMatrix(testRows[:], testColumns[:])
}

func newTestDecoder(m *keypadtest.Matrix) *Decoder {
	var rows [Rows]gpio.PinIn
	var columns [Columns]gpio.PinOut
	for i := range rows {
		rows[i] = m.Row(i)
	}
	for i := range columns {
		columns[i] = m.Column(i)
	}
	return NewDecoder(rows, columns)
}

func assertColumnsAtRest(t *testing.T, m *keypadtest.Matrix) {
	t.Helper()
	for c := 0; c < Columns; c++ {
		assert.Equal(t, gpio.High, m.Column(c).Level(), "column %d", c)
	}
}

func TestDecodeEverySwitch(t *testing.T) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			m := newTestMatrix()
			d := newTestDecoder(m)
			m.Close(r, c)

			coord, ok := d.Decode(r)
			require.True(t, ok, "switch (%d,%d)", r, c)
			assert.Equal(t, Coord{Row: r, Column: c}, coord)
			assertColumnsAtRest(t, m)
		}
	}
}

func TestDecodeStopsAtFirstMatch(t *testing.T) {
	m := newTestMatrix()
	d := newTestDecoder(m)
	m.Close(2, 0)
	m.Close(2, 1)

	coord, ok := d.Decode(2)
	require.True(t, ok)
	assert.Equal(t, Coord{Row: 2, Column: 0}, coord)
	assert.Equal(t, 1, m.Row(2).Reads())
	assert.Empty(t, m.Column(1).Writes(), "later columns must not be strobed")
	assertColumnsAtRest(t, m)
}

func TestDecodeNoMatch(t *testing.T) {
	m := newTestMatrix()
	d := newTestDecoder(m)
	m.Close(1, 2)

	_, ok := d.Decode(0)
	assert.False(t, ok)
	assert.Equal(t, 3, m.Row(0).Reads())
	for c := 0; c < Columns; c++ {
		assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, m.Column(c).Writes())
	}
	assertColumnsAtRest(t, m)
}

func TestDecodeOutOfRange(t *testing.T) {
	m := newTestMatrix()
	d := newTestDecoder(m)
	m.Close(0, 0)

	for _, row := range []int{-1, Rows, 42} {
		_, ok := d.Decode(row)
		assert.False(t, ok, "row %d", row)
	}
	for c := 0; c < Columns; c++ {
		assert.Empty(t, m.Column(c).Writes())
	}
}

func TestDecodeSkipsFailingColumn(t *testing.T) {
	m := newTestMatrix()
	d := newTestDecoder(m)
	m.Close(4, 0)
	m.Close(4, 1)
	m.Column(0).FailOut(errors.New("bus error"))

	coord, ok := d.Decode(4)
	require.True(t, ok)
	assert.Equal(t, Coord{Row: 4, Column: 1}, coord)

	m.Column(0).FailOut(nil)
	assertColumnsAtRest(t, m)
}

func TestRowIndex(t *testing.T) {
	m := newTestMatrix()
	d := newTestDecoder(m)

	for r := 0; r < Rows; r++ {
		assert.Equal(t, r, d.RowIndex(m.Row(r)))
	}

	other := keypadtest.NewMatrix([]string{"GPIO2"}, nil)
	assert.Equal(t, -1, d.RowIndex(other.Row(0)))
	assert.Equal(t, -1, d.RowIndex(nil))
}
