package domain

import (
	"errors"
	"fmt"
)

// Kind separates recoverable conditions from programming defects.
type Kind int

const (
	// KindInvalidContent marks malformed byte sequences. It never escapes a scan as an error.
	KindInvalidContent Kind = iota + 1
	// KindIO marks failures of the underlying stream.
	KindIO
	// KindInvariant marks an internal defect, e.g. an unknown status reaching an exhaustive switch.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInvalidContent:
		return "invalid content"
	case KindIO:
		return "i/o failure"
	case KindInvariant:
		return "invariant violation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidContent = errors.New("invalid content")
	ErrIO             = errors.New("i/o failure")
	ErrInvariant      = errors.New("invariant violation")
)

// Error is the error type returned by detection components.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel belonging to the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidContent:
		return e.Kind == KindInvalidContent
	case ErrIO:
		return e.Kind == KindIO
	case ErrInvariant:
		return e.Kind == KindInvariant
	}
	return false
}

// NewIOError wraps a stream failure.
func NewIOError(op, message string, cause error) *Error {
	return &Error{Kind: KindIO, Op: op, Message: message, Cause: cause}
}

// Invariant panics with a KindInvariant error. It must only be reachable through a defect.
func Invariant(op, format string, args ...interface{}) {
	panic(&Error{Kind: KindInvariant, Op: op, Message: fmt.Sprintf(format, args...)})
}
