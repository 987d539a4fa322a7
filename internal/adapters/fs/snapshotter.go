// Package fs provides the filesystem snapshotter used for change detection.
package fs

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"os"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Snapshotter = (*Snapshotter)(nil)

// Snapshotter observes filesystem state via os.Stat and SHA-1.
type Snapshotter struct{}

// NewSnapshotter creates a new Snapshotter.
func NewSnapshotter() *Snapshotter {
	return &Snapshotter{}
}

// Snapshot stats the path and computes the content digest for
// non-empty regular files. Directories and empty files get a nil
// digest, matching the persisted log shape.
func (s *Snapshotter) Snapshot(path string) (domain.BuildLogEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.BuildLogEntry{}, zerr.With(
			zerr.Wrap(err, domain.ErrInputStatFailed.Error()), "path", path)
	}

	entry := domain.BuildLogEntry{
		Path:    path,
		ModTime: info.ModTime().Unix(),
	}

	if info.IsDir() {
		return entry, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // declared build input
	if err != nil {
		return domain.BuildLogEntry{}, zerr.With(
			zerr.Wrap(err, domain.ErrInputUnreadable.Error()), "path", path)
	}
	if len(data) > 0 {
		sum := sha1.Sum(data) //nolint:gosec // content fingerprint, not a security boundary
		entry.Digest = sum[:]
	}
	return entry, nil
}
