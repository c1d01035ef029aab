package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies resolver failures so callers can map each kind to a
// user-facing message (or to silence) with a table instead of scattered
// type switches.
type ErrorKind int

const (
	// ErrKindTransport covers network failures, non-200 responses and
	// undecodable bodies.
	ErrKindTransport ErrorKind = iota
	// ErrKindPlatform covers well-formed responses whose errors[] is set.
	ErrKindPlatform
	// ErrKindNotServiceable marks a valid pincode the platform cannot
	// deliver to.
	ErrKindNotServiceable
	// ErrKindValidation marks locally rejected input; never sent upstream.
	ErrKindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "transport"
	case ErrKindPlatform:
		return "platform"
	case ErrKindNotServiceable:
		return "not_serviceable"
	case ErrKindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// FetchError wraps a resolver failure with its kind.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func fetchErr(kind ErrorKind, format string, args ...any) error {
	return &FetchError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the ErrorKind from err, defaulting to transport for
// anything unclassified.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ErrKindTransport
}
