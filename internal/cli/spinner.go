package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/spotlight/pkg/grid"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line while a layout is computed. Passing
// [Spinner.OnPage] as the pipeline's page callback extends the line with
// streaming progress: pages read, rows built and items placed.
type Spinner struct {
	w       io.Writer
	label   string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	stop    sync.Once
	started bool

	mu     sync.Mutex
	pages  int
	rows   int
	placed int
	width  int // widest line written
}

// newSpinner creates a spinner writing to w that stops when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, label string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		label:   label,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.render(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// OnPage records a page appended to the grid. Its signature matches
// pipeline.Options.OnPage.
func (s *Spinner) OnPage(page int, rows []grid.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages++
	s.rows += len(rows)
	if n := len(rows); n > 0 {
		s.placed = rows[n-1].End
	}
}

// status returns the current line without the animation frame.
func (s *Spinner) status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages == 0 {
		return s.label
	}
	return fmt.Sprintf("%s page %d · %d rows · %d items placed", s.label, s.pages, s.rows, s.placed)
}

func (s *Spinner) render(frame string) {
	line := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// Stop ends the animation and clears the line. It may be called more than
// once.
func (s *Spinner) Stop() {
	s.cancel()
	s.stop.Do(func() { close(s.done) })
	if s.started {
		<-s.stopped
	}
	s.clearLine()
}

// StopWithError stops the spinner and prints msg as an error.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	newPrinter(s.w).failure("%s", msg)
}

// Cancelled reports whether the context the spinner was created with has
// ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
