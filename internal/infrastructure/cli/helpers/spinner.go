package helpers

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner displays an animated spinner during long operations
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	label    string
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	enabled  bool
	mu       sync.Mutex
}

// NewSpinner creates a new spinner. It stays silent unless w is a terminal.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
		label:    label,
		stopChan: make(chan struct{}),
		enabled:  IsTerminal(w),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running || !s.enabled {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		idx := 0
		for {
			fmt.Fprintf(s.writer, "\r%s %s", s.frames[idx%len(s.frames)], s.label)
			idx++
			select {
			case <-s.stopChan:
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
}

// WithSpinner shows a spinner on w while fn runs.
func WithSpinner(w io.Writer, label string, fn func()) {
	spinner := NewSpinner(w, label)
	spinner.Start()
	defer spinner.Stop()
	fn()
}
