// Package query compiles MongoDB-style filter documents into immutable
// operator trees and evaluates them against document values.
package query

import (
	"errors"
	"fmt"
)

// ErrorType categorizes query errors for structured handling.
type ErrorType int

const (
	// ErrorInvalidQuery indicates a malformed query detected at compile time.
	ErrorInvalidQuery ErrorType = iota
	// ErrorEvaluation indicates a $where script failure at evaluation time.
	ErrorEvaluation
	// ErrorInternal indicates a violated engine invariant. It signals a bug.
	ErrorInternal
)

// errorTypeNames maps ErrorType to human-readable names.
var errorTypeNames = map[ErrorType]string{
	ErrorInvalidQuery: "InvalidQuery",
	ErrorEvaluation:   "EvaluationError",
	ErrorInternal:     "InternalError",
}

// String returns the string representation of ErrorType.
func (et ErrorType) String() string {
	if name, ok := errorTypeNames[et]; ok {
		return name
	}
	return fmt.Sprintf("UnknownError(%d)", int(et))
}

// maxFragment bounds how much of the offending query text an error carries.
const maxFragment = 200

// Error is a typed engine error carrying the operator tag and the offending
// query fragment where known.
type Error struct {
	Type     ErrorType
	Op       string
	Fragment string
	Message  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
	if e.Op != "" {
		msg += fmt.Sprintf(" (operator %s)", e.Op)
	}
	if e.Fragment != "" {
		msg += fmt.Sprintf(" in %q", e.Fragment)
	}
	return msg
}

// truncateFragment clips fragment text to the first maxFragment characters.
func truncateFragment(s string) string {
	if r := []rune(s); len(r) > maxFragment {
		return string(r[:maxFragment])
	}
	return s
}

// NewInvalidQueryError creates a compile-time error for a malformed query.
func NewInvalidQueryError(op, fragment, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorInvalidQuery,
		Op:       op,
		Fragment: truncateFragment(fragment),
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewEvaluationError creates an evaluation-time error for a $where failure.
func NewEvaluationError(op, fragment, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorEvaluation,
		Op:       op,
		Fragment: truncateFragment(fragment),
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewInternalError creates an error for a violated engine invariant.
func NewInternalError(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsInvalidQuery reports whether err is a compile-time query error.
func IsInvalidQuery(err error) bool {
	var qe *Error
	return errors.As(err, &qe) && qe.Type == ErrorInvalidQuery
}

// IsEvaluation reports whether err is a $where evaluation error.
func IsEvaluation(err error) bool {
	var qe *Error
	return errors.As(err, &qe) && qe.Type == ErrorEvaluation
}
