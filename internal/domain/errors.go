package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies workflow failures so the gateway can map them to
// HTTP statuses and callers can branch without string matching.
type ErrorKind string

const (
	KindPreconditionFailed  ErrorKind = "PRECONDITION_FAILED"
	KindNoValidWindow       ErrorKind = "NO_VALID_WINDOW"
	KindOutOfWindow         ErrorKind = "OUT_OF_WINDOW"
	KindIncompletePayload   ErrorKind = "INCOMPLETE_PAYLOAD"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindOutOfSequence       ErrorKind = "OUT_OF_SEQUENCE"
	KindAlreadyFinalized    ErrorKind = "ALREADY_FINALIZED"
	KindConflict            ErrorKind = "CONFLICT"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInvalidArgument     ErrorKind = "INVALID_ARGUMENT"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindInternal            ErrorKind = "INTERNAL"
)

// Error is the structured error returned by the workflow engine. Detail
// carries machine-readable context (the failed sub-rule, the valid window)
// so callers can render targeted guidance.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewErrorWithDetail(kind ErrorKind, message string, detail map[string]string) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail}
}

// KindOf extracts the ErrorKind from err, unwrapping as needed.
// Unclassified errors report KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// DetailOf returns the structured detail of err, or nil.
func DetailOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Detail
	}
	return nil
}
