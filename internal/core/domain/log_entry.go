package domain

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// DigestSize is the length in bytes of a build log content digest.
const DigestSize = 20

// BuildLogEntry records the last observed state of one filesystem path.
// Digest is nil for directories and for empty files.
type BuildLogEntry struct {
	Path    string
	ModTime int64
	Digest  []byte
}

// Same reports whether the other entry describes an unchanged path:
// identical modification time and identical (possibly absent) digest.
func (e BuildLogEntry) Same(other BuildLogEntry) bool {
	return e.ModTime == other.ModTime && bytes.Equal(e.Digest, other.Digest)
}

// String encodes the entry as a single log line:
// path, unix-seconds mtime and an optional hex digest, space separated.
func (e BuildLogEntry) String() string {
	line := e.Path + " " + strconv.FormatInt(e.ModTime, 10)
	if len(e.Digest) > 0 {
		line += " " + hex.EncodeToString(e.Digest)
	}
	return line
}

// ParseBuildLogEntry decodes a single build log line.
func ParseBuildLogEntry(line string) (BuildLogEntry, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 2 && len(parts) != 3 {
		return BuildLogEntry{}, zerr.With(zerr.Wrap(ErrLogCorrupt, "wrong field count"), "line", line)
	}

	mtime, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return BuildLogEntry{}, zerr.With(zerr.Wrap(ErrLogCorrupt, "bad modification time"), "line", line)
	}

	entry := BuildLogEntry{Path: parts[0], ModTime: mtime}
	if len(parts) == 3 {
		digest, err := hex.DecodeString(parts[2])
		if err != nil || len(digest) != DigestSize {
			return BuildLogEntry{}, zerr.With(zerr.Wrap(ErrLogCorrupt, "bad digest"), "line", line)
		}
		entry.Digest = digest
	}
	return entry, nil
}
