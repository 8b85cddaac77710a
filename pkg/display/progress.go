package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Progress renders a simple single-line progress indicator for
// long-running byte transfers, such as a fetcher download.
type Progress struct {
	writer    io.Writer
	total     int64
	current   int64
	message   string
	mu        sync.Mutex
	enabled   bool
	lastWidth int
}

// NewProgress creates a progress indicator for a transfer of the given
// total size in bytes.
func NewProgress(writer io.Writer, total int64, message string) *Progress {
	return &Progress{writer: writer, total: total, message: message, enabled: true}
}

// SetEnabled enables or disables progress output.
func (p *Progress) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// SetCurrent sets the current byte offset and re-renders the line.
func (p *Progress) SetCurrent(current int64) {
	p.mu.Lock()
	p.current = current
	total := p.total
	enabled := p.enabled
	p.mu.Unlock()

	if enabled && total > 0 {
		p.renderValues(current, total)
	}
}

// Done marks the transfer complete and prints a trailing newline.
func (p *Progress) Done() {
	p.mu.Lock()
	p.current = p.total
	current := p.current
	total := p.total
	enabled := p.enabled
	p.mu.Unlock()

	if enabled && total > 0 {
		p.renderValues(current, total)
		_, _ = fmt.Fprintln(p.writer)
	}
}

// Clear erases the progress line from the display.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && p.lastWidth > 0 {
		_, _ = fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lastWidth))
	}
}

func (p *Progress) renderValues(current, total int64) {
	percentage := float64(current) / float64(total) * 100
	line := fmt.Sprintf("\r%s: %d/%d bytes (%.0f%%)", p.message, current, total, percentage)

	p.mu.Lock()
	if len(line) < p.lastWidth {
		line += strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)
	p.mu.Unlock()

	_, _ = fmt.Fprint(p.writer, line)
	if f, ok := p.writer.(*os.File); ok {
		_ = f.Sync()
	}
}
