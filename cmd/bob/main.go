// Package main is the entry point for the bob build tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/bob/cmd/bob/commands"
	"go.trai.ch/bob/internal/app"
	_ "go.trai.ch/bob/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	err = cli.Execute(ctx)

	// The pretty tracer keeps a renderer goroutine alive; let it paint
	// the final task states before the process exits.
	if closer, ok := components.Tracer.(io.Closer); ok {
		_ = closer.Close()
	}

	if err != nil {
		// zerr prints a report with stack trace and metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
