package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tt := []struct {
		name  string
		coord Coord
		key   KeyCode
		ok    bool
	}{
		{"first key", Coord{0, 0}, Key1, true},
		{"end of first row", Coord{0, 2}, Key3, true},
		{"star row left", Coord{3, 0}, KeyA, true},
		{"zero", Coord{3, 1}, Key0, true},
		{"star row right", Coord{3, 2}, KeyD, true},
		{"last key", Coord{4, 2}, KeyB, true},
		{"negative row", Coord{-1, 0}, 0, false},
		{"row out of range", Coord{Rows, 0}, 0, false},
		{"negative column", Coord{0, -1}, 0, false},
		{"column out of range", Coord{0, Columns}, 0, false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := DefaultKeyMap.Lookup(tc.coord)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.key, key)
		})
	}
}

func TestKeyMapIndexing(t *testing.T) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			key, ok := DefaultKeyMap.Lookup(Coord{r, c})
			assert.True(t, ok)
			assert.Equal(t, DefaultKeyMap[r*Columns+c], key)
		}
	}
}

func TestCodes(t *testing.T) {
	codes := DefaultKeyMap.Codes()
	assert.Len(t, codes, Rows*Columns)
	assert.Equal(t, Key1, codes[0])
	assert.Equal(t, KeyB, codes[len(codes)-1])

	m := KeyMap{Key1, Key1, Key2}
	assert.Equal(t, []KeyCode{Key1, Key2, 0}, m.Codes())
}

func TestLabels(t *testing.T) {
	var labels string
	for _, k := range DefaultKeyMap {
		labels += k.Label()
	}
	assert.Equal(t, "123456789A0DNRB", labels)
	assert.Equal(t, "?", KeyCode(200).Label())
	assert.Equal(t, "KEY_0", Key0.String())
	assert.Equal(t, "KEY(200)", KeyCode(200).String())
}
