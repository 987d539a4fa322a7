package buildlog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.trai.ch/bob/internal/adapters/buildlog"
	"go.trai.ch/bob/internal/core/domain"
)

func logFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bob.log")
}

func TestStore_UpsertAndGet(t *testing.T) {
	s, err := buildlog.Open(logFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	entry := domain.BuildLogEntry{Path: "main.c", ModTime: 100, Digest: make([]byte, domain.DigestSize)}
	if err := s.Upsert(entry); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, ok := s.Get("main.c")
	if !ok || !got.Same(entry) {
		t.Errorf("Get returned %+v, %v", got, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get for unknown path must report absence")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := logFile(t)

	s, err := buildlog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	entry := domain.BuildLogEntry{Path: "a", ModTime: 1}
	if err := s.Upsert(entry); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := buildlog.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, ok := s2.Get("a")
	if !ok || got.ModTime != 1 {
		t.Errorf("entry lost across reopen: %+v, %v", got, ok)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	path := logFile(t)

	s, err := buildlog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = s.Upsert(domain.BuildLogEntry{Path: "a", ModTime: 1})
	_ = s.Upsert(domain.BuildLogEntry{Path: "a", ModTime: 2})

	got, _ := s.Get("a")
	if got.ModTime != 2 {
		t.Errorf("in-memory last write should win, got %d", got.ModTime)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The raw file still holds both appended lines; a reload must
	// resolve them to the later one.
	s2, err := buildlog.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, _ = s2.Get("a")
	if got.ModTime != 2 {
		t.Errorf("reloaded last write should win, got %d", got.ModTime)
	}
}

func TestStore_CompactLeavesOneLinePerPath(t *testing.T) {
	path := logFile(t)

	s, err := buildlog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = s.Upsert(domain.BuildLogEntry{Path: "b", ModTime: 1})
	_ = s.Upsert(domain.BuildLogEntry{Path: "a", ModTime: 2})
	_ = s.Upsert(domain.BuildLogEntry{Path: "b", ModTime: 3})

	if err := s.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 compacted lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "a 2" || lines[1] != "b 3" {
		t.Errorf("unexpected compacted content: %q", lines)
	}
}

func TestOpen_CorruptLog(t *testing.T) {
	path := logFile(t)
	if err := os.WriteFile(path, []byte("not a valid entry line at all\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := buildlog.Open(path)
	if !errors.Is(err, domain.ErrLogCorrupt) {
		t.Fatalf("expected corrupt log error, got %v", err)
	}
}

func TestOpener_ImplementsPort(t *testing.T) {
	opener := buildlog.NewOpener()
	log, err := opener.Open(logFile(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
