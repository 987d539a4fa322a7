// Package shell provides the runner adapter that performs task actions.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Runner = (*Runner)(nil)

// Runner implements ports.Runner using the filesystem and os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run performs the action's side effect. Command output is streamed
// line-buffered to the logger and verbatim to the provided writers.
func (r *Runner) Run(ctx context.Context, action domain.TaskAction, stdout, stderr io.Writer) error {
	switch a := action.(type) {
	case domain.Phony:
		return nil
	case domain.Copy:
		return r.copyFile(a)
	case domain.Command:
		return r.runCommand(ctx, a, stdout, stderr)
	default:
		return zerr.With(zerr.Wrap(domain.ErrTaskExecutionFailed, "unknown action kind"), "action", action.Display())
	}
}

func (r *Runner) copyFile(a domain.Copy) error {
	fail := func(err error) error {
		wrapped := zerr.Wrap(err, domain.ErrCopyFailed.Error())
		return zerr.With(zerr.With(wrapped, "src", a.Src), "dst", a.Dst)
	}

	src, err := os.Open(a.Src) //nolint:gosec // declared build input
	if err != nil {
		return fail(err)
	}
	defer src.Close() //nolint:errcheck // best effort close of a read handle

	dst, err := os.Create(a.Dst) //nolint:gosec // declared build output
	if err != nil {
		return fail(err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fail(err)
	}
	if err := dst.Close(); err != nil {
		return fail(err)
	}
	return nil
}

func (r *Runner) runCommand(ctx context.Context, a domain.Command, stdout, stderr io.Writer) error {
	cmd := newShellCommand(ctx, a.Line)

	stdoutLog := &logWriter{logger: r.logger, level: "info"}
	stderrLog := &logWriter{logger: r.logger, level: "error"}
	cmd.Stdout = io.MultiWriter(stdoutLog, stdout)
	cmd.Stderr = io.MultiWriter(stderrLog, stderr)

	err := cmd.Run()
	_ = stdoutLog.Close()
	_ = stderrLog.Close()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.Wrap(err, domain.ErrCommandFailed.Error())
		return zerr.With(zerr.With(wrapped, "command", a.Line), "exit_code", exitCode)
	}
	return nil
}

// newShellCommand builds the process for a command line. On Windows
// the line is split on spaces and executed directly; elsewhere it runs
// through sh -c so pipes and redirections keep working.
func newShellCommand(ctx context.Context, line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		parts := strings.Split(line, " ")
		return exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // declared build command
	}
	return exec.CommandContext(ctx, "sh", "-c", line) //nolint:gosec // declared build command
}

// logWriter buffers process output and forwards complete lines to the
// logger. Partial trailing output is flushed on Close.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}
