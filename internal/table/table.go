package table

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/editor"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// Table is an ordered-by-name mapping from logical name to FileInfo, plus
// an optional free-form description (spec §3).
type Table struct {
	Description string
	entries     map[string]FileInfo
}

// New constructs an empty Table (spec §4.4 "create").
func New(description string) Table {
	return Table{Description: description, entries: map[string]FileInfo{}}
}

// FromFiles constructs a Table from a sequence of FileInfo (spec §4.4
// "from_files").
func FromFiles(files []FileInfo, description string) Table {
	t := New(description)
	for _, fi := range files {
		t.entries[fi.Name] = fi
	}
	return t
}

// Read loads the table at location, materializing a local working copy
// first if location is remote (spec §4.4, §4.6).
func Read(ctx context.Context, location string) (Table, error) {
	var t Table
	err := editor.WithRemoteWorkingCopy(ctx, location, false, func(working string) error {
		loaded, err := decodeFile(working)
		if err != nil {
			return err
		}
		t = loaded
		return nil
	})
	return t, err
}

// Write saves t to location, routing through the remote-table editor when
// location is remote. If create is true, no prior remote copy is fetched
// (spec §4.6 "create variant").
func Write(ctx context.Context, t Table, location string, create bool) error {
	return editor.WithRemoteWorkingCopy(ctx, location, create, func(working string) error {
		return encodeFile(t, working)
	})
}

// Add inserts or replaces an entry by info.Name (spec §4.4).
func (t Table) Add(info FileInfo) Table {
	next := t.clone()
	next.entries[info.Name] = info
	return next
}

// AddStrict behaves like Add but fails with DuplicateName if an entry
// with this name already exists — the strict-add variant spec §7 reserves
// DuplicateName for.
func (t Table) AddStrict(info FileInfo) (Table, error) {
	if _, exists := t.entries[info.Name]; exists {
		return t, errors.Wrapf(xerrors.DuplicateName, "%q", info.Name)
	}
	return t.Add(info), nil
}

// Remove deletes every entry whose whole name matches pattern, a regular
// expression (spec §4.4). A literal name is a valid (non-special) regex,
// so exact-name removal and pattern removal share one code path.
func (t Table) Remove(pattern string) (Table, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return t, errors.Wrapf(xerrors.FormatError, "invalid remove pattern %q: %v", pattern, err)
	}
	next := t.clone()
	for name := range next.entries {
		if re.MatchString(name) {
			delete(next.entries, name)
		}
	}
	return next, nil
}

// Updated returns a new Table whose entries are each refreshed against the
// local filesystem (spec §4.4).
func (t Table) Updated() Table {
	next := t.clone()
	for name, fi := range next.entries {
		next.entries[name] = fi.Refresh()
	}
	return next
}

// Get returns the entry for name, if present.
func (t Table) Get(name string) (FileInfo, bool) {
	fi, ok := t.entries[name]
	return fi, ok
}

// Names returns every entry name in sorted order (spec §4.4: "iteration
// order is by sorted name for display").
func (t Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns every FileInfo, sorted by name.
func (t Table) Entries() []FileInfo {
	names := t.Names()
	out := make([]FileInfo, 0, len(names))
	for _, name := range names {
		out = append(out, t.entries[name])
	}
	return out
}

// Len reports the number of entries.
func (t Table) Len() int {
	return len(t.entries)
}

// AddFromDir registers every regular file in dir into the table, each
// keyed by its base name without extension — supplementing spec §4.4's
// operation set per SPEC_FULL.md, using the same name-derivation rule as
// add_massive (spec §8 scenario 6).
func AddFromDir(t Table, dir string) (Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return t, errors.Wrapf(xerrors.IOError, "read dir %s: %v", dir, err)
	}

	next := t.clone()
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		name := baseNameNoExt(e.Name())
		fi, err := NewFileInfo(name, full)
		if err != nil {
			return t, err
		}
		next.entries[fi.Name] = fi
	}
	return next, nil
}

// BaseNameNoExt derives the key add_massive and AddFromDir use: the file's
// base name with its extension stripped.
func BaseNameNoExt(path string) string {
	return baseNameNoExt(filepath.Base(path))
}

func baseNameNoExt(base string) string {
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func (t Table) clone() Table {
	next := Table{Description: t.Description, entries: make(map[string]FileInfo, len(t.entries))}
	for k, v := range t.entries {
		next.entries[k] = v
	}
	return next
}
