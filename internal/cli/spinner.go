package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a long stage runs. It only draws
// when w is a terminal; piped output stays clean.
type spinner struct {
	w       io.Writer
	message string
	draw    bool

	ctx      context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// startSpinner starts a spinner on w that runs until stop is called or
// ctx is done.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		draw:    isTerminal(w),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *spinner) run() {
	defer close(s.stopped)
	if !s.draw {
		<-s.ctx.Done()
		return
	}

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// stop halts the animation and clears the line. Calling it again is a
// no-op.
func (s *spinner) stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// fail stops the spinner and prints msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
