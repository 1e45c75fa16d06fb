// Package errors provides structured error handling for the textstate library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindValidation indicates a value object was constructed from
	// inconsistent inputs.
	KindValidation
	// KindPatch indicates a partial-patch payload could not be decoded.
	KindPatch
	// KindPayload indicates a serialized state payload could not be parsed.
	KindPayload
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPatch:
		return "patch"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// StateError represents a structured error in the textstate library.
type StateError struct {
	// Op is the operation that failed (e.g., "inputstate.DecodePatch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// ValidationError reports a value object constructed from inconsistent
// inputs. It is fatal to the construction call that produced it; callers
// must not coerce the inputs and retry.
type ValidationError struct {
	// Field is the field (or field pair) that failed validation.
	Field string
	// Reason describes the constraint that was violated.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MalformedPatchError reports a type mismatch while decoding a
// partial-patch payload. The offending patch should be dropped; the
// previous state remains authoritative.
type MalformedPatchError struct {
	// Key is the payload key that failed to decode.
	Key string
	// Want is the expected type name.
	Want string
	// Got is the actual value received.
	Got any
}

func (e *MalformedPatchError) Error() string {
	return fmt.Sprintf("malformed patch field %q: want %s, got %T", e.Key, e.Want, e.Got)
}

// ErrorHandler receives errors reported by the textstate library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *StateError)
}
