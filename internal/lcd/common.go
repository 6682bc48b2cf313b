package lcd

import "strings"

type Line byte

func (l Line) String() string {
	switch l {
	case Line1:
		return "L1"
	case Line2:
		return "L2"
	}
	return "N/A"
}

const (
	Line1 Line = 0x80
	Line2 Line = 0xC0

	lineWidth = 16

	readyText   = "Keypad ready"
	dialingText = "Dialing:"
	clearLabel  = "N"
)

// Display is a two line character display.
type Display interface {
	PrintLine(l Line, msg string) error
	Clear(l Line) error
}

// Dial remembers the most recent key labels that fit on one line.
type Dial struct {
	typed []string
}

func (d *Dial) Press(label string) {
	d.typed = append(d.typed, label)
	if over := len(d.typed) - lineWidth; over > 0 {
		d.typed = d.typed[over:]
	}
}

func (d *Dial) Reset() {
	d.typed = nil
}

func (d *Dial) String() string {
	return strings.Join(d.typed, "")
}

// DialDisplay shows the dialed keys on a Display. The N key clears them.
type DialDisplay struct {
	display Display
	dial    Dial
}

func NewDialDisplay(d Display) *DialDisplay {
	return &DialDisplay{display: d}
}

// Reset clears the dialed keys and shows the idle screen.
func (d *DialDisplay) Reset() error {
	d.dial.Reset()
	if err := d.display.PrintLine(Line1, readyText); err != nil {
		return err
	}
	return d.display.Clear(Line2)
}

// Key handles a pressed key label.
func (d *DialDisplay) Key(label string) error {
	if label == clearLabel {
		return d.Reset()
	}
	d.dial.Press(label)
	if err := d.display.PrintLine(Line1, dialingText); err != nil {
		return err
	}
	return d.display.PrintLine(Line2, d.dial.String())
}

// Sleep shows the shutdown screen.
func (d *DialDisplay) Sleep() error {
	if err := d.display.PrintLine(Line1, "  Sleeping..."); err != nil {
		return err
	}
	return d.display.Clear(Line2)
}
