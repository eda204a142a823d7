package importer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback defines the interface for progress reporting
type ProgressCallback interface {
	Start(total int)
	Update(chatName string, preview string)
	Finish()
}

// ProgressReporter draws a progress bar during import
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		startTime: time.Now(),
	}
}

// Start sets the number of chats to process
func (p *ProgressReporter) Start(total int) {
	p.total = total
	p.current = 0
	p.startTime = time.Now()
}

// Update advances the bar by one chat
func (p *ProgressReporter) Update(chatName string, preview string) {
	p.current++
	if p.total <= 0 {
		return
	}

	pct := float64(p.current) / float64(p.total) * 100

	// Draw progress bar (40 chars wide)
	barWidth := 40
	filled := barWidth * p.current / p.total
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	displayText := truncate(chatName, 30)
	if preview != "" {
		displayText += ": " + truncate(strings.ReplaceAll(preview, "\n", " "), 40)
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) %s", bar, pct, p.current, p.total, displayText)
}

// Finish completes the progress display
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\nCompleted: processed %d chats in %s\n", p.current, elapsed.Round(time.Millisecond))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
