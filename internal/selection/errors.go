package selection

import (
	"errors"
	"fmt"
)

// Kind classifies a selection failure.
type Kind string

const (
	KindEmptySelection   Kind = "EMPTY_SELECTION"
	KindMalformedSegment Kind = "MALFORMED_SEGMENT"
	KindUnknownReference Kind = "UNKNOWN_REFERENCE"
	KindInvalidRange     Kind = "INVALID_RANGE"
	KindEmptyRange       Kind = "EMPTY_RANGE"
)

// Error is a terminal selection failure. It carries the offending
// segment or token and the full original input so callers can produce
// an actionable message. Selection errors are never retried.
type Error struct {
	Kind    Kind
	Segment string // offending segment or token, may be empty
	Input   string // full original selection string
	Message string
	Err     error // underlying oracle error, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a selection error, or false if err is not one.
func KindOf(err error) (Kind, bool) {
	var selErr *Error
	if errors.As(err, &selErr) {
		return selErr.Kind, true
	}
	return "", false
}

const formatHint = "expected format like 'abc1234,def5678-9999999'"

func newEmptyInput(input string) *Error {
	return &Error{
		Kind:    KindEmptySelection,
		Input:   input,
		Message: fmt.Sprintf("invalid commit selection: empty input (%s)", formatHint),
	}
}

func newEmptySegment(segment, input string) *Error {
	return &Error{
		Kind:    KindEmptySelection,
		Segment: segment,
		Input:   input,
		Message: fmt.Sprintf("invalid commit selection segment %q in %q (%s)", segment, input, formatHint),
	}
}

func newEmptyResult(input string) *Error {
	return &Error{
		Kind:    KindEmptySelection,
		Input:   input,
		Message: fmt.Sprintf("invalid commit selection %q: no commits resolved", input),
	}
}

func newMalformedSegment(segment, input string) *Error {
	return &Error{
		Kind:    KindMalformedSegment,
		Segment: segment,
		Input:   input,
		Message: fmt.Sprintf("invalid commit selection segment %q in %q (%s)", segment, input, formatHint),
	}
}

func newUnknownReference(token, input string, err error) *Error {
	return &Error{
		Kind:    KindUnknownReference,
		Segment: token,
		Input:   input,
		Message: fmt.Sprintf("invalid commit selection token %q: commit not found", token),
		Err:     err,
	}
}

func newInvalidRange(segment, input string, err error) *Error {
	return &Error{
		Kind:    KindInvalidRange,
		Segment: segment,
		Input:   input,
		Message: fmt.Sprintf("invalid commit range %q: start must be an ancestor of end", segment),
		Err:     err,
	}
}

func newEmptyRange(segment, input string, err error) *Error {
	return &Error{
		Kind:    KindEmptyRange,
		Segment: segment,
		Input:   input,
		Message: fmt.Sprintf("invalid commit range %q: no commits found", segment),
		Err:     err,
	}
}
