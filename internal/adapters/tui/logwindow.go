package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// maxScrollback bounds the number of retained log lines per stage.
const maxScrollback = 2000

// LogWindow is a bounded scrollback buffer rendering the tail of a
// stage's output. It accepts partial writes and assembles them into
// lines.
type LogWindow struct {
	mu      sync.Mutex
	lines   []string
	partial strings.Builder
	width   int
	height  int
}

// NewLogWindow creates an empty log window.
func NewLogWindow() *LogWindow {
	return &LogWindow{}
}

// Write implements io.Writer. Data may contain partial lines; they are
// buffered until the newline arrives.
func (l *LogWindow) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range p {
		if b == '\n' {
			l.appendLineLocked(l.partial.String())
			l.partial.Reset()
			continue
		}
		if b == '\r' {
			continue
		}
		l.partial.WriteByte(b)
	}

	return len(p), nil
}

func (l *LogWindow) appendLineLocked(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > maxScrollback {
		l.lines = l.lines[len(l.lines)-maxScrollback:]
	}
}

// SetSize updates the rendered viewport dimensions.
func (l *LogWindow) SetSize(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	l.width = width
	l.height = height
}

// View renders the tail of the buffer, truncated to the viewport width.
func (l *LogWindow) View() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	visible := l.lines
	if l.partial.Len() > 0 {
		visible = append(append([]string{}, l.lines...), l.partial.String())
	}

	if l.height > 0 && len(visible) > l.height {
		visible = visible[len(visible)-l.height:]
	}

	out := make([]string, len(visible))
	for i, line := range visible {
		out[i] = l.truncateLocked(line)
	}
	return strings.Join(out, "\n")
}

// truncateLocked clips a line to the viewport width, counting printable
// cells rather than bytes.
func (l *LogWindow) truncateLocked(line string) string {
	if l.width <= 0 || lipgloss.Width(line) <= l.width {
		return line
	}

	var b strings.Builder
	used := 0
	for _, r := range line {
		w := lipgloss.Width(string(r))
		if used+w > l.width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}
