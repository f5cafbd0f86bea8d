package batch

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker renders batch linking progress to a writer, typically
// os.Stderr. Its Update method matches ProgressFunc so it can be passed
// directly to Linker.Run.
type ProgressTracker struct {
	writer    io.Writer
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return &ProgressTracker{writer: writer}
}

// Update reports progress after a batch completes.
func (p *ProgressTracker) Update(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.startTime = time.Now()
		p.started = true
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(processed) / float64(total) * 100.0
	}
	rate := float64(processed) / time.Since(p.startTime).Seconds()

	fmt.Fprintf(p.writer, "\rLinking: %d/%d (%.1f%%) - %.1f fragments/s",
		processed, total, percentage, rate)
}

// Finish prints a newline after the final progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	fmt.Fprintln(p.writer)
}
