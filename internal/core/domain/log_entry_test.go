package domain_test

import (
	"crypto/sha1" //nolint:gosec // change detection, not security
	"errors"
	"testing"

	"go.trai.ch/bob/internal/core/domain"
)

func TestBuildLogEntry_RoundTripWithDigest(t *testing.T) {
	sum := sha1.Sum([]byte("content")) //nolint:gosec // change detection, not security
	entry := domain.BuildLogEntry{
		Path:    "src/main.c",
		ModTime: 1736601600,
		Digest:  sum[:],
	}

	parsed, err := domain.ParseBuildLogEntry(entry.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !parsed.Same(entry) || parsed.Path != entry.Path {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, entry)
	}
}

func TestBuildLogEntry_RoundTripWithoutDigest(t *testing.T) {
	entry := domain.BuildLogEntry{Path: "build", ModTime: 1736601599}

	line := entry.String()
	if line != "build 1736601599" {
		t.Errorf("unexpected line: %q", line)
	}

	parsed, err := domain.ParseBuildLogEntry(line)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Digest != nil {
		t.Error("digest must stay absent through a round trip")
	}
}

func TestBuildLogEntry_Same(t *testing.T) {
	base := domain.BuildLogEntry{Path: "f", ModTime: 10, Digest: []byte{1, 2}}

	if !base.Same(domain.BuildLogEntry{Path: "other", ModTime: 10, Digest: []byte{1, 2}}) {
		t.Error("path must not participate in comparison")
	}
	if base.Same(domain.BuildLogEntry{Path: "f", ModTime: 11, Digest: []byte{1, 2}}) {
		t.Error("mtime change must be detected")
	}
	if base.Same(domain.BuildLogEntry{Path: "f", ModTime: 10, Digest: []byte{1, 3}}) {
		t.Error("digest change must be detected")
	}
	if base.Same(domain.BuildLogEntry{Path: "f", ModTime: 10}) {
		t.Error("digest presence change must be detected")
	}
}

func TestParseBuildLogEntry_Corrupt(t *testing.T) {
	lines := []string{
		"",
		"just-a-path",
		"path not-a-number",
		"path 123 zz",
		"path 123 abcd", // digest too short
		"path 123 ff extra",
	}
	for _, line := range lines {
		if _, err := domain.ParseBuildLogEntry(line); !errors.Is(err, domain.ErrLogCorrupt) {
			t.Errorf("line %q: expected corrupt log error, got %v", line, err)
		}
	}
}
