package keypad

import (
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// Decoder finds the closed switch on a row by strobing the columns.
type Decoder struct {
	rows    [Rows]gpio.PinIn
	columns [Columns]gpio.PinOut
}

// NewDecoder returns a decoder over already configured lines. Columns must
// be resting at gpio.High.
func NewDecoder(rows [Rows]gpio.PinIn, columns [Columns]gpio.PinOut) *Decoder {
	return &Decoder{rows: rows, columns: columns}
}

// Decode drives each column low in ascending order and reads back row. The
// first column that pulls the row low wins. Every column is back at
// gpio.High when Decode returns.
func (d *Decoder) Decode(row int) (Coord, bool) {
	if row < 0 || row >= Rows || d.rows[row] == nil {
		return Coord{}, false
	}
	in := d.rows[row]

	for c, col := range d.columns {
		if err := col.Out(gpio.Low); err != nil {
			log.Warnf("Unable to strobe column %d (%s): %v", c, col, err)
			d.restore(c)
			continue
		}
		level := in.Read()
		d.restore(c)

		if level == gpio.Low {
			return Coord{Row: row, Column: c}, true
		}
	}
	return Coord{}, false
}

func (d *Decoder) restore(c int) {
	if err := d.columns[c].Out(gpio.High); err != nil {
		log.Warnf("Unable to restore column %d (%s): %v", c, d.columns[c], err)
	}
}

// RowIndex returns the index of p among the decoder rows, or -1.
func (d *Decoder) RowIndex(p gpio.PinIn) int {
	for i, r := range d.rows {
		if r != nil && r == p {
			return i
		}
	}
	return -1
}
