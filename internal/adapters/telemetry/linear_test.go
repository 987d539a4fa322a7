package telemetry_test

import (
	"bytes"
	"errors"
	"testing"

	"go.trai.ch/bob/internal/adapters/telemetry"
)

func TestLinear_PrintsProgressForExecutedTasks(t *testing.T) {
	var buf bytes.Buffer
	tr := telemetry.NewLinear(&buf)
	ctx := t.Context()

	tr.EmitPlan(ctx, []string{"compile", "link"})

	_, span := tr.Start(ctx, "compile")
	span.End()

	_, span = tr.Start(ctx, "link")
	span.End()

	want := "[1/2] compile\n[2/2] link\n"
	if got := buf.String(); got != want {
		t.Errorf("output %q, want %q", got, want)
	}
}

func TestLinear_CachedSpansPrintNothing(t *testing.T) {
	var buf bytes.Buffer
	tr := telemetry.NewLinear(&buf)
	ctx := t.Context()

	tr.EmitPlan(ctx, []string{"compile", "link"})

	_, span := tr.Start(ctx, "compile")
	span.Cached()
	span.End()

	_, span = tr.Start(ctx, "link")
	span.End()

	// Skipped tasks advance neither the counter nor the denominator.
	if got := buf.String(); got != "[1/1] link\n" {
		t.Errorf("output %q", got)
	}
}

func TestLinear_FailedSpansPrintNothing(t *testing.T) {
	var buf bytes.Buffer
	tr := telemetry.NewLinear(&buf)
	ctx := t.Context()

	tr.EmitPlan(ctx, []string{"compile"})

	_, span := tr.Start(ctx, "compile")
	span.RecordError(errors.New("boom"))
	span.End()

	if got := buf.String(); got != "" {
		t.Errorf("failed span must print nothing, got %q", got)
	}
}
