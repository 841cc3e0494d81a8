package manager

import "sync"

// logBuffer is the capped rolling log attached to each window. Appending
// beyond the cap evicts the oldest line.
type logBuffer struct {
	mu    sync.Mutex
	cap   int
	lines []string
}

func newLogBuffer(capacity int) *logBuffer {
	if capacity <= 0 {
		capacity = defaultLogLines
	}
	return &logBuffer{cap: capacity}
}

func (b *logBuffer) Append(line string) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	if len(b.lines) > b.cap {
		b.lines = b.lines[len(b.lines)-b.cap:]
	}
	b.mu.Unlock()
}

// Lines returns a copy, oldest first.
func (b *logBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
