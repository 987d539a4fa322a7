// Package buildlog implements the persisted build log store.
//
// The on-disk format is line oriented: one entry per line holding the
// path, the unix-seconds modification time and an optional hex content
// digest. Entries are appended as paths are observed, so a run that
// aborts mid-way still leaves the observations made so far on disk;
// when a run completes the file is compacted to one line per path.
package buildlog

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.BuildLog       = (*Store)(nil)
	_ ports.BuildLogOpener = (*Opener)(nil)
)

// Store implements ports.BuildLog backed by a single append-mode file.
// Reads are served from memory; the last entry written for a path wins.
type Store struct {
	mu      sync.RWMutex
	path    string
	file    *os.File
	entries map[string]domain.BuildLogEntry
	order   []string
}

// Open loads the build log at path, creating the file if it does not exist.
func Open(path string) (*Store, error) {
	path = filepath.Clean(path)

	//nolint:gosec // path is chosen by the build invocation
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLogOpenFailed.Error()), "path", path)
	}

	s := &Store{
		path:    path,
		file:    file,
		entries: make(map[string]domain.BuildLogEntry),
	}
	if err := s.load(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	scanner := bufio.NewScanner(s.file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, err := domain.ParseBuildLogEntry(line)
		if err != nil {
			return zerr.With(err, "path", s.path)
		}
		s.put(entry)
	}
	if err := scanner.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLogReadFailed.Error()), "path", s.path)
	}
	return nil
}

// put records an entry in memory, keeping first-observation order for
// deterministic compaction.
func (s *Store) put(entry domain.BuildLogEntry) {
	if _, exists := s.entries[entry.Path]; !exists {
		s.order = append(s.order, entry.Path)
	}
	s.entries[entry.Path] = entry
}

// Get returns the last recorded entry for the path.
func (s *Store) Get(path string) (domain.BuildLogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[path]
	return entry, ok
}

// Upsert records a fresh observation and appends it to the file
// immediately. The lock is held only for the memory update and the
// single write, never across caller I/O.
func (s *Store) Upsert(entry domain.BuildLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(entry)
	if _, err := s.file.WriteString(entry.String() + "\n"); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLogWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// Compact rewrites the log file with exactly one line per path.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, len(s.order))
	copy(paths, s.order)
	slices.Sort(paths)

	data := make([]byte, 0, len(paths)*64)
	for _, path := range paths {
		data = append(data, s.entries[path].String()...)
		data = append(data, '\n')
	}

	if err := s.file.Truncate(0); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLogWriteFailed.Error()), "path", s.path)
	}
	// The handle is append-mode, so writes land at the new end.
	if _, err := s.file.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLogWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// Opener implements ports.BuildLogOpener.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open loads the log at path, creating it if absent.
func (o *Opener) Open(path string) (ports.BuildLog, error) {
	return Open(path)
}
