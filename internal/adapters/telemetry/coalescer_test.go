package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkRecorder struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (r *chunkRecorder) record(chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, chunk)
}

func (r *chunkRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

func TestLogCoalescer_EmitsOnSizeLimit(t *testing.T) {
	var rec chunkRecorder
	c := newLogCoalescer(8, time.Hour, rec.record)
	defer func() { _ = c.Close() }()

	_, err := c.Write([]byte("line 1\n"))
	require.NoError(t, err)
	require.Equal(t, 0, rec.count())

	_, err = c.Write([]byte("line 2\n"))
	require.NoError(t, err)

	require.Equal(t, 1, rec.count())
	assert.Equal(t, []byte("line 1\nline 2\n"), rec.chunks[0])
}

func TestLogCoalescer_EmitsAfterInterval(t *testing.T) {
	var rec chunkRecorder
	c := newLogCoalescer(1<<20, 10*time.Millisecond, rec.record)
	defer func() { _ = c.Close() }()

	_, err := c.Write([]byte("partial line"))
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, rec.count())
	assert.Equal(t, []byte("partial line"), rec.chunks[0])
}

func TestLogCoalescer_CloseDrainsRemainder(t *testing.T) {
	var rec chunkRecorder
	c := newLogCoalescer(1<<20, time.Hour, rec.record)

	_, err := c.Write([]byte("last line\n"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	require.Equal(t, 1, rec.count())
	assert.Equal(t, []byte("last line\n"), rec.chunks[0])
}

func TestLogCoalescer_WriteAfterCloseFails(t *testing.T) {
	c := newLogCoalescer(0, 0, nil)
	require.NoError(t, c.Close())

	_, err := c.Write([]byte("late"))
	assert.Error(t, err)
}

func TestLogCoalescer_CloseIsIdempotent(t *testing.T) {
	c := newLogCoalescer(0, 0, nil)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestLogCoalescer_NoTimerFiresAfterSizeFlush(t *testing.T) {
	var rec chunkRecorder
	c := newLogCoalescer(4, 20*time.Millisecond, rec.record)
	defer func() { _ = c.Close() }()

	_, err := c.Write([]byte("full"))
	require.NoError(t, err)
	require.Equal(t, 1, rec.count())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}
