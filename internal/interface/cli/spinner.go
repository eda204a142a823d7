package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner shows a spinning animation while a long step runs
type spinner struct {
	writer   io.Writer
	message  string
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	started  bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		writer:   w,
		message:  message,
		interval: 80 * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the animation in a goroutine
func (s *spinner) Start() {
	s.started = true
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i = (i + 1) % len(spinnerFrames) {
			_, _ = fmt.Fprintf(s.writer, "\r%s %s", spinnerFrames[i], s.message)
			select {
			case <-s.stop:
				// Clear the line
				_, _ = fmt.Fprint(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop clears the line and waits for the animation to exit. Safe to call
// twice, or without Start.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		if s.started {
			<-s.done
		}
	})
}
