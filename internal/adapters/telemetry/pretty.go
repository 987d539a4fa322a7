package telemetry

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbletea"
	progrockui "go.trai.ch/bob/internal/adapters/telemetry/progrock"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/bob/internal/tui"
)

var _ ports.Tracer = (*Pretty)(nil)

// Pretty renders build progress as an animated vertex list. Recording
// goes through progrock; a Bubble Tea program consumes the status
// stream until Close drains it.
type Pretty struct {
	recorder *progrockui.Recorder
	queue    *progrockui.Queue
	program  *tea.Program
	done     chan struct{}
}

// NewPretty starts the renderer goroutine and returns the tracer.
func NewPretty() *Pretty {
	queue := progrockui.NewQueue()
	program := tea.NewProgram(
		tui.NewModel(queue),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)

	p := &Pretty{
		recorder: progrockui.NewRecorder(queue),
		queue:    queue,
		program:  program,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		_, _ = program.Run()
	}()

	return p
}

// Start creates a span for one task.
func (p *Pretty) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	return p.recorder.Start(ctx, name)
}

// EmitPlan signals the planned tasks.
func (p *Pretty) EmitPlan(ctx context.Context, taskNames []string) {
	p.recorder.EmitPlan(ctx, taskNames)
}

// Close ends the status stream and waits for the renderer to finish
// painting the final states.
func (p *Pretty) Close() error {
	err := p.queue.Close()
	<-p.done
	return err
}
