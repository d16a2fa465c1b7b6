package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Failure Taxonomy
// --------------------------------------------------------------------------

// FailureKind classifies where in a transfer a failure occurred. A failed
// connection must stay distinguishable from a zero-throughput success, so
// every error surfaced by the core carries one of these kinds.
type FailureKind uint8

const (
	FailureUnknown FailureKind = iota

	// FailureBind means the listen address/port was unavailable. Fatal for
	// the server, never retried.
	FailureBind

	// FailureConnect means the target was unreachable or refused. Fatal for
	// that connection; sibling connections are unaffected.
	FailureConnect

	// FailureIO means a socket error occurred mid-transfer. Terminates that
	// connection's handler; bytes counted up to the failure are preserved.
	FailureIO
)

// String returns the string representation of a FailureKind.
func (k FailureKind) String() string {
	switch k {
	case FailureBind:
		return "bind"
	case FailureConnect:
		return "connect"
	case FailureIO:
		return "io"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Failure Type
// --------------------------------------------------------------------------

// Failure wraps an underlying error with its FailureKind.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// --------------------------------------------------------------------------
// Failure Factory Functions
// --------------------------------------------------------------------------

// NewBindFailure wraps an error as a bind failure
func NewBindFailure(err error) error {
	return &Failure{Kind: FailureBind, Err: err}
}

// NewConnectFailure wraps an error as a connect failure
func NewConnectFailure(err error) error {
	return &Failure{Kind: FailureConnect, Err: err}
}

// NewIOFailure wraps an error as an io failure
func NewIOFailure(err error) error {
	return &Failure{Kind: FailureIO, Err: err}
}

// KindOf returns the FailureKind of an error, or FailureUnknown if the
// error was not produced by this package.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}
