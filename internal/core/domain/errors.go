package domain

import "go.trai.ch/zerr"

var (
	// ErrNoTasks is returned when a build is started with an empty task set.
	ErrNoTasks = zerr.New("no tasks to execute")

	// ErrCycleDetected is returned when dependency discovery finds a cycle
	// in the output-to-input matches between tasks.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrRootNotFound is returned when the requested root task is not in the task set.
	ErrRootNotFound = zerr.New("root task not found")

	// ErrTargetNotFound is returned when a named build target matches no task.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrTaskExecutionFailed wraps any error returned by a task's action.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrCommandFailed is returned when a command exits non-zero or cannot be spawned.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCopyFailed is returned when a copy action cannot read or write its files.
	ErrCopyFailed = zerr.New("failed to copy file")

	// ErrInputStatFailed is returned when an input path cannot be stated.
	ErrInputStatFailed = zerr.New("failed to stat input")

	// ErrInputUnreadable is returned when an input file cannot be read for hashing.
	ErrInputUnreadable = zerr.New("failed to read input file")

	// ErrOutputStatFailed is returned when an output path is missing after its action ran.
	ErrOutputStatFailed = zerr.New("failed to stat output")

	// ErrOutputDirCreateFailed is returned when an output's parent directory cannot be created.
	ErrOutputDirCreateFailed = zerr.New("failed to create output directory")

	// ErrLogCorrupt is returned when a build log line cannot be parsed.
	ErrLogCorrupt = zerr.New("corrupt build log entry")

	// ErrLogOpenFailed is returned when the build log file cannot be opened.
	ErrLogOpenFailed = zerr.New("failed to open build log")

	// ErrLogReadFailed is returned when the build log file cannot be read.
	ErrLogReadFailed = zerr.New("failed to read build log")

	// ErrLogWriteFailed is returned when the build log file cannot be written.
	ErrLogWriteFailed = zerr.New("failed to write build log")

	// ErrConfigReadFailed is returned when the bobfile cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the bobfile cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidTaskConfig is returned when a task definition in the bobfile
	// declares zero or more than one action.
	ErrInvalidTaskConfig = zerr.New("task must declare exactly one of phony, copy or command")

	// ErrCleanFailed is returned when removing the target directory fails.
	ErrCleanFailed = zerr.New("failed to remove target directory")
)
