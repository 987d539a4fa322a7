package ports

import "go.trai.ch/bob/internal/core/domain"

// Snapshotter observes the current filesystem state of a path.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshotter.go -destination=mocks/mock_snapshotter.go -package=mocks
type Snapshotter interface {
	// Snapshot stats the path and, for non-empty regular files,
	// computes the content digest. The digest is nil for directories
	// and empty files.
	Snapshot(path string) (domain.BuildLogEntry, error)
}
