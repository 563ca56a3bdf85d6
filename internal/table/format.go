package table

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dfsync/dfsync/internal/transport"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// docProtocolPath mirrors spec §6's protocol_path record: {path, pid}.
type docProtocolPath struct {
	Path string `yaml:"path"`
	PID  string `yaml:"pid"`
}

// docMarks mirrors spec §6's marks record: {tmstp, fid}.
type docMarks struct {
	Timestamp   float64 `yaml:"tmstp"`
	Fingerprint string  `yaml:"fid"`
}

// docEntry mirrors spec §6's file record: {name, protocol_path, marks}.
type docEntry struct {
	Name         string          `yaml:"name"`
	ProtocolPath docProtocolPath `yaml:"protocol_path"`
	Marks        docMarks        `yaml:"marks"`
}

// document is the top-level structured text document from spec §6.
type document struct {
	Description string     `yaml:"description"`
	Files       []docEntry `yaml:"files"`
}

func pidOf(kind transport.Kind) string {
	switch kind {
	case transport.SSH:
		return "ssh"
	case transport.XRootD:
		return "xrootd"
	default:
		return "local"
	}
}

func toDocument(t Table) document {
	doc := document{Description: t.Description}
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fi := t.entries[name]
		doc.Files = append(doc.Files, docEntry{
			Name: fi.Name,
			ProtocolPath: docProtocolPath{
				Path: fi.Path,
				PID:  pidOf(transport.Classify(fi.Path)),
			},
			Marks: docMarks{
				Timestamp:   fi.Marks.Timestamp,
				Fingerprint: fi.Marks.Fingerprint,
			},
		})
	}
	return doc
}

func fromDocument(doc document) (Table, error) {
	t := New(doc.Description)
	for _, e := range doc.Files {
		if !ValidName(e.Name) {
			return Table{}, errors.Wrapf(xerrors.FormatError, "malformed table: invalid entry name %q", e.Name)
		}
		if e.ProtocolPath.Path == "" {
			return Table{}, errors.Wrapf(xerrors.FormatError, "malformed table: entry %q has no path", e.Name)
		}
		marks := FileMarks{Timestamp: e.Marks.Timestamp, Fingerprint: e.Marks.Fingerprint}
		if !marks.Valid() {
			return Table{}, errors.Wrapf(xerrors.FormatError, "malformed table: entry %q has invalid marks", e.Name)
		}
		fi, err := NewFileInfoFromFields(e.Name, e.ProtocolPath.Path, marks)
		if err != nil {
			return Table{}, err
		}
		t.entries[fi.Name] = fi
	}
	return t, nil
}

// decodeFile loads a Table from the structured text document at localPath.
func decodeFile(localPath string) (Table, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return Table{}, errors.Wrapf(xerrors.IOError, "read %s: %v", localPath, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, errors.Wrapf(xerrors.FormatError, "parse %s: %v", localPath, err)
	}
	return fromDocument(doc)
}

// encodeFile writes t as the structured text document to localPath, via a
// sibling temp file then an atomic rename (spec §4.7's whole-file rewrite
// invariant).
func encodeFile(t Table, localPath string) error {
	data, err := yaml.Marshal(toDocument(t))
	if err != nil {
		return errors.Wrapf(xerrors.IOError, "encode %s: %v", localPath, err)
	}

	tmp := localPath + ".dfsync-tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(xerrors.IOError, "write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, localPath); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(xerrors.IOError, "replace %s: %v", localPath, err)
	}
	return nil
}
