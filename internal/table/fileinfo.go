package table

import (
	"os"
	"regexp"

	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/hash"
	"github.com/dfsync/dfsync/internal/transport"
	"github.com/dfsync/dfsync/internal/xerrors"
)

var nameRe = regexp.MustCompile(`^\S+$`)

// ValidName reports whether name satisfies spec §3: non-empty, no
// whitespace.
func ValidName(name string) bool {
	return name != "" && nameRe.MatchString(name)
}

// FileInfo is one row of a Table: a logical name, its protocol-qualified
// path, and its marks. Treated as immutable — every mutation yields a
// replacement value (spec §4.3).
type FileInfo struct {
	Name  string
	Path  string
	Marks FileMarks
}

// NewFileInfo constructs a FileInfo from name and path. If path is locally
// available, marks are stamped from the file's mtime and content hash;
// otherwise the sentinel marks are stamped. This never fails on
// unavailability — the result is simply a bare entry (spec §4.3).
func NewFileInfo(name, path string) (FileInfo, error) {
	if !ValidName(name) {
		return FileInfo{}, errors.Wrapf(xerrors.FormatError, "invalid entry name %q", name)
	}
	fi := FileInfo{Name: name, Path: path, Marks: Sentinel}
	return fi.refreshOrBare(), nil
}

// NewBareFileInfo constructs a FileInfo with explicit sentinel marks
// regardless of local availability (spec §4.3 "bare" construction form).
func NewBareFileInfo(name, path string) (FileInfo, error) {
	if !ValidName(name) {
		return FileInfo{}, errors.Wrapf(xerrors.FormatError, "invalid entry name %q", name)
	}
	return FileInfo{Name: name, Path: path, Marks: Sentinel}, nil
}

// NewFileInfoFromFields hydrates a FileInfo directly from persisted values
// (spec §4.3 "from fields" construction form), skipping any filesystem
// access or validation beyond the name check.
func NewFileInfoFromFields(name, path string, marks FileMarks) (FileInfo, error) {
	if !ValidName(name) {
		return FileInfo{}, errors.Wrapf(xerrors.FormatError, "invalid entry name %q", name)
	}
	return FileInfo{Name: name, Path: path, Marks: marks}, nil
}

// LocalPath returns the filesystem-level path, stripped of any protocol
// prefix.
func (f FileInfo) LocalPath() string {
	return transport.LocalPath(f.Path)
}

// Refresh returns a new FileInfo with marks recomputed against the local
// file reachable via transport.AvailableLocalPath(f.Path). If unavailable,
// f is returned unchanged (spec §4.3).
func (f FileInfo) Refresh() FileInfo {
	return f.refreshOrBare()
}

func (f FileInfo) refreshOrBare() FileInfo {
	local, ok := transport.AvailableLocalPath(f.Path)
	if !ok {
		return f
	}
	marks, err := stampMarks(local)
	if err != nil {
		return f
	}
	return FileInfo{Name: f.Name, Path: f.Path, Marks: marks}
}

func stampMarks(localPath string) (FileMarks, error) {
	st, err := os.Stat(localPath)
	if err != nil {
		return FileMarks{}, errors.Wrapf(xerrors.IOError, "stat %s: %v", localPath, err)
	}
	sum, err := hash.Sum(localPath)
	if err != nil {
		return FileMarks{}, err
	}
	return FileMarks{
		Timestamp:   float64(st.ModTime().UnixNano()) / 1e9,
		Fingerprint: sum,
	}, nil
}
