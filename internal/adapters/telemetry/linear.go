// Package telemetry provides tracer implementations for build progress.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.trai.ch/bob/internal/core/ports"
)

var _ ports.Tracer = (*Linear)(nil)

// Linear is a plain console tracer for CI and non-TTY output. Each
// executed task prints one "[n/total] line" progress line; skipped
// tasks print nothing and leave the denominator, so total reflects
// only the tasks that actually run.
type Linear struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	counter int
}

// NewLinear creates a Linear tracer writing to w.
func NewLinear(w io.Writer) *Linear {
	return &Linear{w: w}
}

// EmitPlan records the number of planned tasks for the progress counter.
func (t *Linear) EmitPlan(_ context.Context, taskNames []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = len(taskNames)
}

// Start creates a span for one task.
func (t *Linear) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	return ctx, &linearSpan{t: t, name: name}
}

func (t *Linear) printProgress(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter++
	_, _ = fmt.Fprintf(t.w, "[%d/%d] %s\n", t.counter, t.total, name)
}

func (t *Linear) dropSkipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total > 0 {
		t.total--
	}
}

type linearSpan struct {
	t      *Linear
	name   string
	mu     sync.Mutex
	cached bool
	err    error
}

// Write discards task process output; in linear mode the logger
// already carries it line by line.
func (s *linearSpan) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// RecordError records a failure for the span.
func (s *linearSpan) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Cached marks the span as skipped.
func (s *linearSpan) Cached() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = true
}

// End completes the span, printing the progress line for executed tasks.
func (s *linearSpan) End() {
	s.mu.Lock()
	cached := s.cached
	failed := s.err != nil
	s.mu.Unlock()

	if cached {
		s.t.dropSkipped()
		return
	}
	if failed {
		return
	}
	s.t.printProgress(s.name)
}
