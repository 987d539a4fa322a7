package ports

import "go.trai.ch/bob/internal/core/domain"

// BuildLog is the persisted path state store used for change detection.
// Implementations must be safe for concurrent use: the engine calls
// Get and Upsert from every worker.
//
//go:generate go run go.uber.org/mock/mockgen -source=buildlog.go -destination=mocks/mock_buildlog.go -package=mocks
type BuildLog interface {
	// Get returns the last recorded entry for the path.
	Get(path string) (domain.BuildLogEntry, bool)

	// Upsert records a fresh observation of a path. The entry is
	// flushed to disk immediately so an aborted run leaves a usable
	// partial log.
	Upsert(entry domain.BuildLogEntry) error

	// Compact rewrites the on-disk log with one line per path.
	// Called once after the whole graph completed successfully.
	Compact() error

	// Close releases the underlying file handle.
	Close() error
}

// BuildLogOpener opens the build log for one build invocation.
type BuildLogOpener interface {
	// Open loads the log at path, creating it if absent.
	Open(path string) (BuildLog, error)
}
