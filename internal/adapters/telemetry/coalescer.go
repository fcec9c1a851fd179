// Package telemetry bridges pipeline stage spans to progress renderers.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// defaultChunkSize caps a coalesced log chunk at 4KB.
	defaultChunkSize = 4096
	// defaultInterval bounds how long a partial chunk may sit buffered.
	defaultInterval = 50 * time.Millisecond
)

// logCoalescer absorbs small subprocess writes and emits them as
// larger chunks, so a chatty stage does not turn into one renderer
// event per line. A chunk goes out when the buffer reaches the size
// limit or when the interval elapses after the first buffered write.
type logCoalescer struct {
	limit    int
	interval time.Duration
	emit     func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// newLogCoalescer returns a coalescer emitting chunks through emit.
// Zero limit or interval picks the defaults. Close releases the flush
// timer and drains the remainder.
func newLogCoalescer(limit int, interval time.Duration, emit func([]byte)) *logCoalescer {
	if limit <= 0 {
		limit = defaultChunkSize
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &logCoalescer{
		limit:    limit,
		interval: interval,
		emit:     emit,
	}
}

// Write buffers p. The first write into an empty buffer arms the
// flush timer; reaching the size limit flushes immediately.
func (c *logCoalescer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, errors.New("log coalescer is closed")
	}

	armed := c.buf.Len() > 0
	n, err := c.buf.Write(p)
	if err != nil {
		return n, err
	}

	if c.buf.Len() >= c.limit {
		c.flushLocked()
		return n, nil
	}
	if !armed {
		c.timer = time.AfterFunc(c.interval, c.Flush)
	}
	return n, nil
}

// Flush emits whatever is buffered.
func (c *logCoalescer) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.flushLocked()
}

// Close flushes the remainder and rejects further writes. Safe to
// call more than once.
func (c *logCoalescer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.flushLocked()
	c.closed = true
	return nil
}

// flushLocked must be called with mu held.
func (c *logCoalescer) flushLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.buf.Len() == 0 {
		return
	}

	chunk := make([]byte, c.buf.Len())
	copy(chunk, c.buf.Bytes())
	c.buf.Reset()

	// emit must be fast; the callers hand chunks to a buffered channel.
	if c.emit != nil {
		c.emit(chunk)
	}
}
