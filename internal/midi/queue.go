package midi

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrFull is returned when a message does not fit in the queue.
var ErrFull = errors.New("midi: queue full")

// DefaultQueueSize holds a few hundred three-byte messages.
const DefaultQueueSize = 1024

// Queue is a byte ring with any number of writers and one reader.
// Writes are serialized and land whole; ReadByte never blocks or locks.
type Queue struct {
	mu   sync.Mutex
	buf  []byte
	mask uint32
	head atomic.Uint32 // next read
	tail atomic.Uint32 // next write
}

// NewQueue returns a queue holding at least size bytes. Size rounds up to a
// power of two.
func NewQueue(size int) *Queue {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Queue{buf: make([]byte, n), mask: uint32(n - 1)}
}

// Write appends p as a unit. If it does not fit, nothing is written and
// ErrFull is returned; callers treat that as a dropped message.
func (q *Queue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tail := q.tail.Load()
	used := tail - q.head.Load()
	if uint32(len(p)) > uint32(len(q.buf))-used {
		return 0, ErrFull
	}
	for i, b := range p {
		q.buf[(tail+uint32(i))&q.mask] = b
	}
	q.tail.Store(tail + uint32(len(p)))
	return len(p), nil
}

// ReadByte pops one byte, returning io.EOF when the queue is empty.
func (q *Queue) ReadByte() (byte, error) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return 0, io.EOF
	}
	b := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return b, nil
}

// Len reports the number of unread bytes.
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap reports the ring capacity.
func (q *Queue) Cap() int { return len(q.buf) }

var (
	_ io.Writer     = (*Queue)(nil)
	_ io.ByteReader = (*Queue)(nil)
)
