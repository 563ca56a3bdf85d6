// Package xerrors defines the error kinds the core raises, per spec §7.
// Every kind except WorkerError is a sentinel that callers match with
// errors.Is; context is attached with github.com/pkg/errors so the chain
// stays inspectable. WorkerError is an aggregate type (see below).
package xerrors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Sentinel kinds. Wrap with Wrap/Wrapf to attach context; compare with
// errors.Is(err, xerrors.NonLocalPath) etc.
var (
	// NonLocalPath: an operation required a locally-resolvable path but
	// got one unreachable on this host.
	NonLocalPath = errors.New("path is not reachable on this host")

	// DuplicateName: attempt to create a Table entry whose name already
	// exists, for strict-add variants.
	DuplicateName = errors.New("name already exists in table")

	// TransferError: a copy tool exited non-zero or timed out.
	TransferError = errors.New("transfer failed")

	// IOError: reading or writing a table file, or hashing a local file,
	// failed.
	IOError = errors.New("i/o error")

	// NoLocalReplica: Manager.AvailableTable found no table whose path
	// resolves on this host.
	NoLocalReplica = errors.New("no registered table is reachable from this host")

	// FormatError: a table file is malformed, or a path does not match
	// any protocol grammar.
	FormatError = errors.New("malformed table or path")
)

// Wrap attaches msg as context to a sentinel kind, preserving errors.Is.
func Wrap(kind error, msg string) error {
	return errors.Wrap(kind, msg)
}

// Wrapf is Wrap with Printf-style formatting.
func Wrapf(kind error, format string, args ...any) error {
	return errors.Wrapf(kind, format, args...)
}

// WorkerError aggregates one or more task failures captured by
// internal/worker.Pool.Process. It satisfies errors.Is against any of its
// constituent errors.
type WorkerError struct {
	merr *multierror.Error
}

// NewWorkerError builds a WorkerError from captured per-task failures.
// Returns nil if errs is empty, matching the "no error to report" case.
func NewWorkerError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	we := &WorkerError{merr: &multierror.Error{}}
	for _, e := range errs {
		we.merr = multierror.Append(we.merr, e)
	}
	return we
}

func (w *WorkerError) Error() string {
	return fmt.Sprintf("worker pool: %s", w.merr.Error())
}

func (w *WorkerError) Unwrap() []error {
	return w.merr.Errors
}

// Len reports how many task failures this WorkerError aggregates.
func (w *WorkerError) Len() int {
	return len(w.merr.Errors)
}
