package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans around task executions.
type Tracer interface {
	// Start creates a new span for one task.
	Start(ctx context.Context, name string) (context.Context, Span)

	// EmitPlan signals the set of tasks planned for execution, in
	// scheduling order.
	EmitPlan(ctx context.Context, taskNames []string)
}

// Span represents one task execution. Task process output is streamed
// through the io.Writer.
type Span interface {
	io.Writer

	// End completes the span.
	End()

	// RecordError records a failure for the span.
	RecordError(err error)

	// Cached marks the span as skipped because its inputs were unchanged.
	Cached()
}
