package command

import (
	"sync/atomic"
)

const (
	// QueueSize is the fixed capacity of the command ring buffer, power of two
	QueueSize = 256

	queueMask = QueueSize - 1
)

// slot pairs a command with its sequence stamp
// seq == pos: free for the producer claiming pos
// seq == pos+1: holds the command written at pos, ready for the consumer
type slot struct {
	seq atomic.Uint64
	cmd Command
}

// Queue is a bounded MPSC ring between ingesters and the tick loop
// Producers claim a position on tail and publish through the slot stamp,
// the single consumer (tick loop) reads stamped slots and hands them back a lap ahead
//
// Overflow: a full queue refuses the new command; queued commands are never lost
type Queue struct {
	slots   [QueueSize]slot
	head    atomic.Uint64 // next position to consume
	tail    atomic.Uint64 // next position to claim
	dropped atomic.Uint64
}

func NewQueue() *Queue {
	q := &Queue{}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// Push enqueues cmd without blocking, safe for concurrent producers
// Returns false and counts a drop when the queue is full
func (q *Queue) Push(cmd Command) bool {
	pos := q.tail.Load()
	for {
		s := &q.slots[pos&queueMask]
		seq := s.seq.Load()

		switch {
		case seq == pos:
			if !q.tail.CompareAndSwap(pos, pos+1) {
				pos = q.tail.Load()
				continue
			}
			s.cmd = cmd
			s.seq.Store(pos + 1)
			return true

		case seq < pos:
			// Slot still holds a command from the previous lap
			q.dropped.Add(1)
			return false

		default:
			// Another producer claimed pos first
			pos = q.tail.Load()
		}
	}
}

// Consume returns the published commands in FIFO order
// Stops at the first slot whose producer has not finished writing; nil when nothing is ready
func (q *Queue) Consume() []Command {
	head := q.head.Load()
	var out []Command
	for {
		s := &q.slots[head&queueMask]
		if s.seq.Load() != head+1 {
			break
		}
		out = append(out, s.cmd)
		s.cmd = Command{}
		s.seq.Store(head + QueueSize)
		head++
	}
	q.head.Store(head)
	return out
}

// Len returns the approximate number of pending commands
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, QueueSize))
}

// Dropped returns how many commands were refused because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
