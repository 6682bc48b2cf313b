package keypad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	tt := []struct {
		name   string
		t1, t2 uint32
		second bool
		last   uint32
	}{
		{"bounce right after", 1000, 1001, false, 1000},
		{"just inside the window", 1000, 1299, false, 1000},
		{"exactly the window", 1000, 1300, true, 1300},
		{"well after", 1000, 5000, true, 5000},
		{"same instant", 1000, 1000, false, 1000},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(0)
			assert.True(t, g.Accept(tc.t1))
			assert.Equal(t, tc.t1, g.Last())
			assert.Equal(t, tc.second, g.Accept(tc.t2))
			assert.Equal(t, tc.last, g.Last())
		})
	}
}

func TestGateOrigin(t *testing.T) {
	g := NewGate(500)
	assert.False(t, g.Accept(799), "events within the window of start-up are bounce")
	assert.Equal(t, uint32(500), g.Last())
	assert.True(t, g.Accept(800))
}

func TestGateRejectedDoesNotExtendWindow(t *testing.T) {
	g := NewGate(0)
	assert.True(t, g.Accept(300))
	assert.False(t, g.Accept(400))
	assert.False(t, g.Accept(599))
	assert.True(t, g.Accept(600))
}

func TestClock(t *testing.T) {
	c := NewClock()
	first := c.Millis()
	assert.Less(t, first, uint32(1000))

	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, c.Millis(), first+20)
}
