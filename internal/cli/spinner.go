package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/devlens/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a single-line progress indicator. The message can change while
// it runs, which is how pipeline stages show up on the terminal.
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner creates a spinner that stops on its own when ctx ends.
func newSpinner(ctx context.Context, out io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
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
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.width = max(s.width, len(s.message)+2)
				s.mu.Unlock()
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(msg) < len(s.message) {
		// Pad so the shorter message fully overwrites the previous one.
		msg += strings.Repeat(" ", len(s.message)-len(msg))
	}
	s.message = msg
}

// Message returns the current text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimRight(s.message, " ")
}

// Stop stops the spinner and clears the line. Stop is idempotent.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", max(s.width, len(s.message)+2)))
}

// Cancelled reports whether the parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

var stageMessages = map[string]string{
	"profile":       "Fetching profile",
	"repositories":  "Listing repositories",
	"enrichment":    "Inspecting top repositories",
	"contributions": "Counting pull requests and issues",
	"pinned":        "Loading pinned repositories",
	"scoring":       "Scoring",
}

// stageHooks mirrors pipeline stage starts onto a spinner and forwards every
// event to next.
type stageHooks struct {
	next    observability.PipelineHooks
	spinner *Spinner
}

// trackStages installs stageHooks in front of the current pipeline hooks and
// returns a function that restores them.
func trackStages(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(&stageHooks{next: prev, spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}

func (h *stageHooks) OnStageStart(ctx context.Context, stage, subject string) {
	if msg, ok := stageMessages[stage]; ok {
		h.spinner.SetMessage(fmt.Sprintf("%s for %s...", msg, subject))
	}
	h.next.OnStageStart(ctx, stage, subject)
}

func (h *stageHooks) OnStageComplete(ctx context.Context, stage, subject string, d time.Duration, err error) {
	h.next.OnStageComplete(ctx, stage, subject, d, err)
}

func (h *stageHooks) OnPartialFailure(ctx context.Context, subject, repo, kind string, err error) {
	h.next.OnPartialFailure(ctx, subject, repo, kind, err)
}
