package transport

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// tempDirRoot is the parent directory scoped staging/working directories are
// created under. Empty means the OS default (os.MkdirTemp's behavior),
// overridable via internal/config for hosts where the default temp
// filesystem is unsuitable (e.g. too small for staged copies).
var tempDirRoot string

// SetTempDirRoot overrides the parent directory used for scoped temporary
// staging directories created by Copy and the remote-table editor.
func SetTempDirRoot(dir string) {
	tempDirRoot = dir
}

// TempDirRoot returns the currently configured temp directory root (empty
// for the OS default).
func TempDirRoot() string {
	return tempDirRoot
}

// Copy transfers the content at src to dst, picking the tool appropriate to
// the (src, dst) protocol pair per spec §4.1:
//   - local→local: byte copy, timestamps refreshed.
//   - any↔SSH: the SFTP client.
//   - any↔XRootD: the xrdcp external tool.
//   - SSH↔XRootD: routed through a local staging file.
func Copy(ctx context.Context, src, dst string) error {
	srcKind, dstKind := Classify(src), Classify(dst)

	if srcKind == Local && dstKind == Local {
		return copyLocal(src, dst)
	}
	if srcKind == SSH && dstKind == XRootD || srcKind == XRootD && dstKind == SSH {
		return copyViaStaging(ctx, src, dst)
	}
	if srcKind == XRootD || dstKind == XRootD {
		return copyXRootD(ctx, src, dst)
	}
	// At least one side is SSH and the other is local or SSH.
	return copySSH(ctx, src, dst)
}

// copyViaStaging copies src to a scoped local temp file, then that file to
// dst, guaranteeing the staging file is released on all exit paths (spec
// §4.1, §9 decorator-style scoped temp dirs).
func copyViaStaging(ctx context.Context, src, dst string) error {
	dir, err := os.MkdirTemp(tempDirRoot, "dfsync-stage-")
	if err != nil {
		return errors.Wrap(xerrors.IOError, err.Error())
	}
	defer os.RemoveAll(dir)

	staged := filepath.Join(dir, uuid.NewString())
	logging.Debugf(nil, "staging %s -> %s -> %s", src, staged, dst)

	if err := Copy(ctx, src, staged); err != nil {
		return err
	}
	return Copy(ctx, staged, dst)
}
