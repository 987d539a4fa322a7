// Package app implements the application layer for bob.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/bob/internal/engine/executor"
	"go.trai.ch/zerr"
)

// LogFilename is the build log file inside the target directory.
const LogFilename = "bob.log"

// BuildOptions configure one App.Build invocation.
type BuildOptions struct {
	// Target selects the root task by phony label or output path.
	// Empty means the last task in the bobfile.
	Target string
	// Jobs is the worker count; zero means one per CPU.
	Jobs int
	// Verbose logs the discovered task list before execution.
	Verbose bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     *executor.Executor
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, exec *executor.Executor, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		executor:     exec,
		logger:       logger,
	}
}

// Build runs an incremental build of the selected target.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	manifest, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	root, err := resolveRoot(manifest.Tasks, opts.Target)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(manifest.TargetDir, 0o750); err != nil {
		return zerr.With(
			zerr.Wrap(err, domain.ErrOutputDirCreateFailed.Error()),
			"path", manifest.TargetDir,
		)
	}

	logPath := filepath.Join(manifest.TargetDir, LogFilename)
	execOpts := executor.Options{Parallelism: opts.Jobs, Verbose: opts.Verbose}

	if err := a.executor.Execute(ctx, manifest.Tasks, root.ID, logPath, execOpts); err != nil {
		return zerr.Wrap(err, "build execution failed")
	}
	return nil
}

// Clean removes the target directory, including the build log, so the
// next build starts from scratch.
func (a *App) Clean(ctx context.Context) error {
	return a.clean(ctx, false)
}

// Rebuild cleans and then builds the selected target.
func (a *App) Rebuild(ctx context.Context, opts BuildOptions) error {
	if err := a.clean(ctx, true); err != nil {
		return err
	}
	return a.Build(ctx, opts)
}

func (a *App) clean(_ context.Context, quiet bool) error {
	manifest, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	files, bytes := measureTree(manifest.TargetDir)

	if err := os.RemoveAll(manifest.TargetDir); err != nil {
		return zerr.With(
			zerr.Wrap(err, domain.ErrCleanFailed.Error()),
			"path", manifest.TargetDir,
		)
	}

	if !quiet {
		a.logger.Info(fmt.Sprintf("Removed %d files, %s total", files, formatBytes(bytes)))
	}
	return nil
}

// resolveRoot picks the build root. A named target matches a phony
// label or one of a task's output paths; the first registered match
// wins. Without a name the last registered task is the root.
func resolveRoot(set *domain.TaskSet, target string) (domain.Task, error) {
	if set.Len() == 0 {
		return domain.Task{}, domain.ErrNoTasks
	}

	if target == "" {
		root, _ := set.Root()
		return root, nil
	}

	want := domain.NewInternedString(target)
	for _, t := range set.Tasks() {
		if phony, ok := t.Action.(domain.Phony); ok && phony.Label == target {
			return t, nil
		}
		for _, out := range t.Outputs {
			if out == want {
				return t, nil
			}
		}
	}
	return domain.Task{}, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, "root resolution"), "target", target)
}

// measureTree counts files and their cumulative size. Errors are
// ignored: a missing tree cleans to zero.
func measureTree(root string) (int, int64) {
	files := 0
	var bytes int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil //nolint:nilerr // best effort accounting
		}
		if info, err := d.Info(); err == nil {
			files++
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
