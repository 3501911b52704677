package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Counter is a throttled terminal counter for directory walks. Unlike a
// percentage bar, it has no known total: directories are discovered as the
// walk descends.
type Counter struct {
	count      int64
	current    string
	writer     io.Writer
	mu         sync.Mutex
	lastUpdate time.Time
}

func New(w io.Writer) *Counter {
	return &Counter{
		writer:     w,
		lastUpdate: time.Now(),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Visit records one scanned directory and refreshes the display.
func (c *Counter) Visit(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	c.current = filepath.Base(dir)

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(c.lastUpdate) > 100*time.Millisecond {
		c.lastUpdate = now
		c.render()
	}
}

// render must be called with mu already locked
func (c *Counter) render() {
	fmt.Fprintf(c.writer, "\r\033[K%d directories scanned | %s", c.count, c.current)
}

// Finish clears the counter line. The counter keeps its count afterwards,
// which lets one counter span several roots.
func (c *Counter) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\r\033[K")
}
