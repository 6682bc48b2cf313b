package neopixel

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Queue hands the LEDs from one effect to the next. Queuing marks the queue
// interrupted so a running effect can notice and give the LEDs up early.
type Queue struct {
	waiting       int
	runLock       sync.Mutex
	interruptLock sync.Mutex
}

type Unlocker func()

// Queue waits for the LEDs and returns the function that hands them back.
func (q *Queue) Queue() Unlocker {
	q.add(1)
	q.runLock.Lock()
	q.add(-1)

	return q.done
}

func (q *Queue) add(n int) {
	q.interruptLock.Lock()
	defer q.interruptLock.Unlock()

	q.waiting += n
	if q.waiting < 0 {
		log.Warn(errors.New("number waiting in queue less than zero"))
	}
}

// IsInterrupted reports whether another effect is waiting for the LEDs.
func (q *Queue) IsInterrupted() bool {
	q.interruptLock.Lock()
	defer q.interruptLock.Unlock()

	return q.waiting != 0
}

func (q *Queue) done() {
	q.runLock.Unlock()
}
