package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinner provides a simple text-based progress indicator.
type spinner struct {
	out     io.Writer
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(out io.Writer, message string) (s *spinner) {
	s = &spinner{
		out:     out,
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

// newLoadingSpinner returns nil in verbose mode, where debug logs own stderr.
func newLoadingSpinner(out io.Writer, message string, verbose bool) (s *spinner) {
	if verbose {
		return s
	}
	s = newSpinner(out, message)
	return s
}

func (s *spinner) start() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprintf(s.out, "%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
