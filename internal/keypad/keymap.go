package keypad

import "fmt"

const (
	Rows    = 5
	Columns = 3
)

// KeyCode is a Linux input event key code.
type KeyCode uint16

const (
	Key1 KeyCode = 2
	Key2 KeyCode = 3
	Key3 KeyCode = 4
	Key4 KeyCode = 5
	Key5 KeyCode = 6
	Key6 KeyCode = 7
	Key7 KeyCode = 8
	Key8 KeyCode = 9
	Key9 KeyCode = 10
	Key0 KeyCode = 11
	KeyR KeyCode = 19
	KeyA KeyCode = 30
	KeyD KeyCode = 32
	KeyB KeyCode = 48
	KeyN KeyCode = 49
)

var labels = map[KeyCode]string{
	Key1: "1", Key2: "2", Key3: "3",
	Key4: "4", Key5: "5", Key6: "6",
	Key7: "7", Key8: "8", Key9: "9",
	Key0: "0", KeyA: "A", KeyB: "B",
	KeyD: "D", KeyN: "N", KeyR: "R",
}

// Label is the character printed on the key cap.
func (k KeyCode) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return "?"
}

func (k KeyCode) String() string {
	if l, ok := labels[k]; ok {
		return fmt.Sprintf("KEY_%s", l)
	}
	return fmt.Sprintf("KEY(%d)", uint16(k))
}

// Coord is the position of a switch in the matrix.
type Coord struct {
	Row    int
	Column int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// KeyMap maps matrix positions to key codes, indexed row*Columns+column.
type KeyMap [Rows * Columns]KeyCode

// DefaultKeyMap is the layout of the vintage phone keypad.
var DefaultKeyMap = KeyMap{
	Key1, Key2, Key3,
	Key4, Key5, Key6,
	Key7, Key8, Key9,
	KeyA, Key0, KeyD,
	KeyN, KeyR, KeyB,
}

// Lookup returns the key at c, or false when c lies outside the matrix.
func (m *KeyMap) Lookup(c Coord) (KeyCode, bool) {
	if c.Row < 0 || c.Row >= Rows || c.Column < 0 || c.Column >= Columns {
		return 0, false
	}
	return m[c.Row*Columns+c.Column], true
}

// Codes lists every mapped key code once, in table order.
func (m *KeyMap) Codes() []KeyCode {
	seen := make(map[KeyCode]bool, len(m))
	codes := make([]KeyCode, 0, len(m))
	for _, k := range m {
		if seen[k] {
			continue
		}
		seen[k] = true
		codes = append(codes, k)
	}
	return codes
}
