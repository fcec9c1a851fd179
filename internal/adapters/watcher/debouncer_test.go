package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector gathers debouncer batches safely across goroutines.
type collector struct {
	mu      sync.Mutex
	batches [][]string
}

func (c *collector) add(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, paths)
}

func (c *collector) wait(t *testing.T, n int) [][]string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		got := len(c.batches)
		c.mu.Unlock()
		if got >= n {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	require.GreaterOrEqual(t, len(c.batches), n)
	return c.batches
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var c collector
	d := NewDebouncer(20*time.Millisecond, c.add)

	d.Add("a.md")
	d.Add("b.md")
	d.Add("a.md")

	batches := c.wait(t, 1)
	assert.Len(t, batches, 1)
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, batches[0])
}

func TestDebouncer_WindowResetsOnActivity(t *testing.T) {
	var c collector
	d := NewDebouncer(50*time.Millisecond, c.add)

	d.Add("a.md")
	time.Sleep(20 * time.Millisecond)
	d.Add("b.md")

	c.mu.Lock()
	early := len(c.batches)
	c.mu.Unlock()
	assert.Zero(t, early)

	batches := c.wait(t, 1)
	assert.ElementsMatch(t, []string{"a.md", "b.md"}, batches[0])
}

func TestDebouncer_FlushDeliversSynchronously(t *testing.T) {
	var c collector
	d := NewDebouncer(time.Hour, c.add)

	d.Add("a.md")
	d.Flush()

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.batches, 1)
	assert.Equal(t, []string{"a.md"}, c.batches[0])
}

func TestDebouncer_FlushWithNothingPending(t *testing.T) {
	var c collector
	d := NewDebouncer(time.Hour, c.add)

	d.Flush()

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.batches)
}
