package schema

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-hdf5-schema/internal/alloc"
)

// Common errors
var (
	ErrBackend     = errors.New("native backend failure")
	ErrUnsupported = errors.New("unsupported object")
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid path")
	ErrClosed      = errors.New("session is closed")
	ErrNotGroup    = errors.New("object is not a group")
)

// AllocError reports an allocation refused by the memory budget or by fault
// injection.
type AllocError = alloc.Error

// BackendError reports a failed native backend call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBackend.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func backendErr(op string, err error) error {
	return errors.WithStack(&BackendError{Op: op, Err: err})
}

// skipError marks something that cannot be represented. It is never a
// failure.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func skipf(format string, args ...interface{}) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

func isSkip(err error) bool {
	var s *skipError
	return errors.As(err, &s)
}

// withCleanup joins err with the error of a cleanup step. A failed cleanup
// turns a skip into a failure.
func withCleanup(err, cleanupErr error) error {
	if cleanupErr == nil {
		return err
	}
	if err == nil || isSkip(err) {
		return cleanupErr
	}
	return multierr.Append(err, cleanupErr)
}

// closeOnError closes h and returns err joined with any close error.
func closeOnError(err error, h *OwnedHandle) error {
	return withCleanup(err, h.Close())
}

// releaseOnError releases n and returns err joined with any release error.
func releaseOnError(err error, n Node) error {
	return withCleanup(err, Release(n))
}
