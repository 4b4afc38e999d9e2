package host

import (
	"io"
	"sync"
)

// RingBuffer is a byte FIFO shared by the emulation loop and the audio
// player. Read blocks while empty; Write never blocks and overwrites the
// oldest bytes when full.
type RingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	head   int
	count  int
	closed bool
}

// NewRingBuffer creates a ring holding up to capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	rb := &RingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

func (rb *RingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed || len(p) == 0 {
		return
	}

	size := len(rb.buf)
	if len(p) > size {
		p = p[len(p)-size:]
	}
	if drop := rb.count + len(p) - size; drop > 0 {
		rb.head = (rb.head + drop) % size
		rb.count -= drop
	}

	tail := (rb.head + rb.count) % size
	n := copy(rb.buf[tail:], p)
	copy(rb.buf, p[n:])
	rb.count += len(p)
	rb.cond.Signal()
}

// Read implements io.Reader. It returns io.EOF once closed and drained.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := min(len(p), rb.count)
	first := copy(p[:n], rb.buf[rb.head:])
	copy(p[first:n], rb.buf)
	rb.head = (rb.head + n) % len(rb.buf)
	rb.count -= n
	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *RingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Clear discards unread bytes.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	rb.head, rb.count = 0, 0
	rb.mu.Unlock()
}

// Close wakes blocked readers; reads drain what is left and then see io.EOF.
func (rb *RingBuffer) Close() {
	rb.mu.Lock()
	rb.closed = true
	rb.cond.Broadcast()
	rb.mu.Unlock()
}
