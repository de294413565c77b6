package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"mcqkit/internal/grade"
)

// Controller runs the live UI and implements grade.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithInput(nil))
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnBatchStart forwards batch start events to the UI.
func (c *Controller) OnBatchStart(total int) {
	c.send(Event{Kind: EventBatchStart, Total: total})
}

// OnSubmissionEvent forwards submission status updates to the UI.
func (c *Controller) OnSubmissionEvent(event grade.SubmissionEvent) {
	c.send(Event{Kind: EventSubmission, Submission: event})
}

// OnBatchEnd forwards batch completion to the UI and closes it.
func (c *Controller) OnBatchEnd(results []grade.Result) {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	c.send(Event{Kind: EventBatchEnd, Total: len(results), Failed: failed})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}

var _ grade.Observer = (*Controller)(nil)
