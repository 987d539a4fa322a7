// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/bob/internal/core/domain"
)

// Runner executes a single task action.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run performs the action's side effect: nothing for Phony, a file
	// copy for Copy, a shell process for Command. Process output is
	// streamed to stdout and stderr.
	//
	// A copy I/O error, spawn failure or non-zero exit status is
	// returned as an error; the engine treats any runner error as fatal
	// for the whole build.
	Run(ctx context.Context, action domain.TaskAction, stdout, stderr io.Writer) error
}
