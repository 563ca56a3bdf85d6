// Package editor implements the scoped "fetch / edit locally / push back"
// wrapper from spec §4.6: any table-mutating operation that needs to touch
// a possibly-remote file is handed a local working path instead, and the
// remote origin is kept in sync around it.
package editor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/transport"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// WithRemoteWorkingCopy runs fn against a local path guaranteed to hold
// location's current content (unless create is true), and — if location is
// remote — pushes fn's result back to location afterward. The temporary
// staging directory used for a remote location is released on every exit
// path, including when fn returns an error (spec §4.6, §3 "Ownership").
//
// When create is true, the initial fetch is skipped: fn is expected to
// write a fresh file at the working path, which is then uploaded (spec
// §4.6 "create variant").
func WithRemoteWorkingCopy(ctx context.Context, location string, create bool, fn func(workingPath string) error) error {
	if transport.Classify(location) == transport.Local {
		if create {
			if err := ensureParent(location); err != nil {
				return err
			}
		}
		return fn(location)
	}

	dir, err := os.MkdirTemp(transport.TempDirRoot(), "dfsync-edit-")
	if err != nil {
		return errors.Wrap(xerrors.IOError, err.Error())
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.Errorf(location, "failed to release working directory %s: %v", dir, rmErr)
		}
	}()

	working := filepath.Join(dir, uuid.NewString())

	if !create {
		logging.Debugf(location, "fetching remote table to %s", working)
		if err := transport.Copy(ctx, location, working); err != nil {
			return err
		}
	}

	if err := fn(working); err != nil {
		return err
	}

	logging.Debugf(location, "pushing working copy %s back", working)
	return transport.Copy(ctx, working, location)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(xerrors.IOError, "mkdir %s: %v", dir, err)
	}
	return nil
}
