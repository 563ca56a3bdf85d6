package transport

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/xerrors"
)

// copyLocal byte-copies src to dst on the local filesystem, preserving
// contents only — marks (mtime, fingerprint) are refreshed separately by
// the caller after a successful copy (spec §4.1).
func copyLocal(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(xerrors.IOError, "open %s: %v", src, err)
	}
	defer in.Close()

	tmp := dst + ".dfsync-tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(xerrors.IOError, "create %s: %v", tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return errors.Wrapf(xerrors.IOError, "copy %s -> %s: %v", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(xerrors.IOError, "close %s: %v", tmp, err)
	}

	now := time.Now()
	if err := os.Chtimes(tmp, now, now); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(xerrors.IOError, "touch %s: %v", tmp, err)
	}

	// Whole-file replacement: dst ends up either fully old or fully new,
	// never torn (spec §4.7 invariant).
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(xerrors.IOError, "replace %s: %v", dst, err)
	}
	return nil
}
