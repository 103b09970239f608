package resource_manager

import (
	"errors"
	"fmt"
)

// Kind classifies failures that are reported as errors. Expected absences (unknown
// filename, unknown handle, missing directory) are never errors.
type Kind int

const (
	// KindSetup aborts the registration call in progress.
	KindSetup Kind = iota + 1
	// KindRuntime signals a programmer or environment error during reads.
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

var (
	ErrArchiveOpen      = errors.New("cannot open archive")
	ErrArchiveEnumerate = errors.New("cannot enumerate archive entries")
	ErrDuplicateEntry   = errors.New("duplicate archive entry")
	ErrShortRead        = errors.New("read size differs from indexed size")
	ErrSizeUnknown      = errors.New("indexed size is unknown")
	ErrHandleCollision  = errors.New("stream handle collision")
	ErrSeekUnsupported  = errors.New("seek is not supported on archive streams")
	ErrArchiveReopen    = errors.New("cannot reopen indexed archive entry")
	ErrStreamOpen       = errors.New("cannot open stream")
)

// Error carries the kind of a fatal failure along with the operation and path involved.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func setupError(op, path string, err error) error {
	return &Error{Kind: KindSetup, Op: op, Path: path, Err: err}
}

func runtimeError(op, path string, err error) error {
	return &Error{Kind: KindRuntime, Op: op, Path: path, Err: err}
}

// IsSetupFatal reports whether err aborted a folder or archive registration.
func IsSetupFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindSetup
}

// IsRuntimeFatal reports whether err is a runtime failure of a read or stream operation.
func IsRuntimeFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRuntime
}
