package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the frame period.
const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on stderr while a stage runs. The message
// can change between stages; the line shows the elapsed time once it
// passes one second. Stop and its variants are idempotent.
type Spinner struct {
	w     io.Writer
	ctx   context.Context
	start time.Time

	mu      sync.Mutex
	message string
	width   int // runes last written, for clearing

	stopOnce sync.Once
	quit     chan struct{}
	exited   chan struct{}
}

// newSpinnerWithContext returns a spinner that stops animating when ctx is
// cancelled. Cancelled reports that case.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return &Spinner{
		w:       os.Stderr,
		ctx:     ctx,
		message: message,
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.start = time.Now()
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.quit:
			return
		case <-ticker.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.message
	if d := time.Since(s.start); d >= time.Second {
		text = fmt.Sprintf("%s %s", text, d.Round(100*time.Millisecond))
	}
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
	s.eraseLocked()
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = len([]rune(text)) + 2
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eraseLocked()
}

func (s *Spinner) eraseLocked() {
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	s.width = 0
}

// Stop ends the animation and clears the line. It waits for the animation
// goroutine when Start was called.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if !s.start.IsZero() {
			<-s.exited
		}
		s.clear()
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
