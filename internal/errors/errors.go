// Package errors defines the failure kinds a preview pass can produce.
// Every error raised while classifying, reading, or rendering a file is
// wrapped in a PreviewError so the router can report it with one code path.
package errors

import (
	"errors"
	"fmt"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Kind classifies a preview failure.
type Kind int

const (
	Unknown Kind = iota
	// IOError covers open, stat, seek, and read failures.
	IOError
	// DecodeError is raised when content presented as text is not text.
	DecodeError
	// UnsupportedKind is raised for shapes no view can show (volume stacks).
	UnsupportedKind
	// ClassificationError is raised when a type or shape probe fails.
	ClassificationError
)

func (k Kind) String() string {
	switch k {
	case IOError:
		return "io error"
	case DecodeError:
		return "decode error"
	case UnsupportedKind:
		return "unsupported kind"
	case ClassificationError:
		return "classification error"
	default:
		return "unknown error"
	}
}

// Sentinels usable with errors.Is.
var (
	ErrIO             = &PreviewError{kind: IOError, msg: "io error"}
	ErrDecode         = &PreviewError{kind: DecodeError, msg: "decode error"}
	ErrUnsupported    = &PreviewError{kind: UnsupportedKind, msg: "unsupported kind"}
	ErrClassification = &PreviewError{kind: ClassificationError, msg: "classification error"}
)

// PreviewError is the error type for all preview failures.
type PreviewError struct {
	kind Kind
	msg  string
	path string
	err  error
}

func newError(kind Kind, msg, path string, err error) *PreviewError {
	return &PreviewError{kind: kind, msg: msg, path: path, err: err}
}

// NewIOError wraps an I/O failure on path.
func NewIOError(msg, path string, err error) *PreviewError {
	return newError(IOError, msg, path, err)
}

// NewDecodeError reports content at path that cannot be read as text.
func NewDecodeError(msg, path string, err error) *PreviewError {
	return newError(DecodeError, msg, path, err)
}

// NewUnsupportedKind reports a file whose shape has no matching view.
func NewUnsupportedKind(msg, path string) *PreviewError {
	return newError(UnsupportedKind, msg, path, nil)
}

// NewClassificationError wraps a probe failure.
func NewClassificationError(msg, path string, err error) *PreviewError {
	return newError(ClassificationError, msg, path, err)
}

func (e *PreviewError) Error() string {
	switch {
	case e.path != "" && e.err != nil:
		return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
	case e.path != "":
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	default:
		return e.msg
	}
}

func (e *PreviewError) Unwrap() error { return e.err }

// Kind returns the failure kind.
func (e *PreviewError) Kind() Kind { return e.kind }

// Path returns the file the failure is about, if any.
func (e *PreviewError) Path() string { return e.path }

// Is matches any PreviewError of the same kind, so the package sentinels
// work with errors.Is regardless of message and path.
func (e *PreviewError) Is(target error) bool {
	t, ok := target.(*PreviewError)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

// KindOf returns the kind of the first PreviewError in err's chain.
func KindOf(err error) Kind {
	var pe *PreviewError
	if errors.As(err, &pe) {
		return pe.kind
	}
	return Unknown
}
