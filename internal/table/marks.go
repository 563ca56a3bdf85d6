// Package table implements FileMarks, FileInfo, and Table — the persisted
// manifest mapping a logical name to a replica's path and fingerprint
// (spec §3, §4.3, §4.4).
package table

import (
	"github.com/dfsync/dfsync/internal/hash"
)

// FileMarks is the (timestamp, fingerprint) pair attached to a FileInfo.
// The zero value is not a valid FileMarks on its own — use Sentinel for a
// bare declaration.
type FileMarks struct {
	Timestamp   float64 `yaml:"tmstp"`
	Fingerprint string  `yaml:"fid"`
}

// Sentinel is the marks value for an unmaterialized ("bare") entry.
var Sentinel = FileMarks{Timestamp: 0, Fingerprint: hash.None}

// IsSentinel reports whether m is the bare-entry sentinel.
func (m FileMarks) IsSentinel() bool {
	return m.Fingerprint == hash.None
}

// Valid checks the invariants from spec §3: timestamp ≥ 0, fingerprint is
// either the sentinel or a well-formed hex digest.
func (m FileMarks) Valid() bool {
	return m.Timestamp >= 0 && hash.Valid(m.Fingerprint)
}

// Equal reports fingerprint equality, treating the sentinel as distinct
// from any real value: a sentinel equals only another sentinel. The
// reconciliation "all agree" check compares fingerprints the same way.
func (m FileMarks) Equal(other FileMarks) bool {
	return m.Fingerprint == other.Fingerprint
}
