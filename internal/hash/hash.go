// Package hash computes the stable content fingerprint used to populate
// FileMarks.Fingerprint. Spec §4.2 requires exactly one deterministic,
// fixed-width algorithm — not the teacher's pluggable multi-hash negotiation
// — so this wraps crypto/sha256 directly rather than reintroducing a
// hash.Type/hash.Set abstraction the spec has no use for.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/xerrors"
)

// None is the sentinel fingerprint for an unmaterialized entry.
const None = "none"

// Width is the hex digest width this package always produces.
const Width = sha256.Size * 2

// Sum returns the lowercase hex SHA-256 digest of the file at path.
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(xerrors.IOError, "hash %s: %v", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(xerrors.IOError, "hash %s: %v", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Valid reports whether s is the sentinel or a well-formed digest of this
// package's fixed width.
func Valid(s string) bool {
	if s == None {
		return true
	}
	if len(s) != Width {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
