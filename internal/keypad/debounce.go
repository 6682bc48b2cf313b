package keypad

import "time"

// DebounceWindow is the minimum time between two accepted triggers.
const DebounceWindow = 300 * time.Millisecond

var debounceMillis = uint32(DebounceWindow / time.Millisecond)

// Gate suppresses triggers that arrive within DebounceWindow of the last
// accepted one. It is not safe for concurrent use; the keypad calls it with
// its scan lock held.
type Gate struct {
	last uint32
}

// NewGate returns a gate whose last accepted event happened at origin.
func NewGate(origin uint32) *Gate {
	return &Gate{last: origin}
}

// Accept reports whether a trigger at now is a genuine event, and records
// now as the last event time if so.
func (g *Gate) Accept(now uint32) bool {
	if now-g.last < debounceMillis {
		return false
	}
	g.last = now
	return true
}

// Last returns the time of the last accepted event.
func (g *Gate) Last() uint32 {
	return g.last
}

// Clock is a monotonic millisecond counter.
type Clock interface {
	Millis() uint32
}

type epochClock struct {
	epoch time.Time
}

// NewClock returns a Clock counting from the moment it was created, so the
// 32-bit value does not wrap for about 49 days of uptime.
func NewClock() Clock {
	return &epochClock{epoch: time.Now()}
}

func (c *epochClock) Millis() uint32 {
	return uint32(time.Since(c.epoch) / time.Millisecond)
}
