// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// StartupFault indicates the mart registry or configuration could not be loaded.
	StartupFault Kind = "startup_fault"
	// TransportFailure indicates the model endpoint was unreachable or timed out.
	TransportFailure Kind = "transport_failure"
	// RoutingFailure indicates the model chose no mart or one outside the registry.
	RoutingFailure Kind = "routing_failure"
	// MalformedResponse indicates a model reply not recoverable as JSON with the required keys.
	MalformedResponse Kind = "malformed_response"
	// PolicyViolation indicates generated SQL failed one or more policy rules.
	PolicyViolation Kind = "policy_violation"
	// EditFailure indicates the editor exhausted its retry bound without a passing candidate.
	EditFailure Kind = "edit_failure"
	// WriteFailed indicates the validated SQL could not be written to the target file.
	WriteFailed Kind = "write_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of err when it is (or wraps) an *E, and "" otherwise.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is (or wraps) an *E of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
