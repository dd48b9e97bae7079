package realtime

import (
	"sync"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// Kind distinguishes the two push events.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
)

// Event is a typed push event.
type Event struct {
	Kind   Kind
	Record model.Record
}

// Queue is a FIFO of Events fed by a Channel's handlers. Both kinds share one
// buffer, so consumers see them in arrival order. Nothing is dropped: when the
// buffer is full the channel's read goroutine waits.
type Queue struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// NewQueue subscribes a new queue to c. size is the buffer length.
func NewQueue(c *Channel, size int) *Queue {
	if size < 0 {
		size = 0
	}
	q := &Queue{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
	c.OnCreated(func(r model.Record) { q.push(Event{Kind: KindCreated, Record: r}) })
	c.OnUpdated(func(r model.Record) { q.push(Event{Kind: KindUpdated, Record: r}) })
	return q
}

func (q *Queue) push(e Event) {
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.ch <- e:
	case <-q.done:
	}
}

// Events returns the receive side of the queue. It is never closed; select
// on Done to stop waiting.
func (q *Queue) Events() <-chan Event { return q.ch }

// Done is closed by Close.
func (q *Queue) Done() <-chan struct{} { return q.done }

// Close stops delivery and releases any blocked producer. Idempotent.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}
