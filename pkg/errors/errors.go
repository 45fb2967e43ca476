// Package errors provides structured error types for shelfconv.
//
// Every failure raised while reading a Bookshelf benchmark or building the
// converted model carries a machine-readable [Code]. Callers branch on the
// code rather than on message text:
//
//   - STRUCTURAL_VIOLATION: a record is missing or out of sequence
//   - REFERENCE_ERROR: a record names an undeclared object, pin or net
//   - CONSISTENCY_ERROR: an aggregate geometric invariant does not hold
//   - ADVISORY_MISMATCH: a declared count disagrees with what was read
//
// The first three are fatal and abort the conversion. Advisory mismatches
// are reported as [Warning] values and never returned as errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeReference, "undefined object %s", name)
//	if errors.Is(err, errors.ErrCodeReference) {
//	    // Handle the bad reference
//	}
//
//	// Attach a source position
//	err = errors.New(errors.ErrCodeStructural, "End keyword not found").At("ibm01.scl", 42)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Conversion errors
	ErrCodeStructural  Code = "STRUCTURAL_VIOLATION"
	ErrCodeReference   Code = "REFERENCE_ERROR"
	ErrCodeConsistency Code = "CONSISTENCY_ERROR"
	ErrCodeAdvisory    Code = "ADVISORY_MISMATCH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Position identifies a line in an input file.
type Position struct {
	File string
	Line int
}

// String renders the position as file:line, omitting empty parts.
func (p Position) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return ""
	case p.Line == 0:
		return p.File
	case p.File == "":
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Error is a structured error with a code, optional position and optional cause.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Human-readable message
	Pos     Position // Offending record, if known
	Cause   error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if pos := e.Pos.String(); pos != "" {
		msg = pos + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At returns e with its position set to file:line.
func (e *Error) At(file string, line int) *Error {
	e.Pos = Position{File: file, Line: line}
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the positioned message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if pos := e.Pos.String(); pos != "" {
			return pos + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}

// Warning is a non-fatal advisory mismatch between a declared count in a file
// header and what was actually read.
type Warning struct {
	Pos      Position
	Subject  string // what was counted, e.g. "nets" or "pins of net n1"
	Declared int
	Actual   int
}

// Error implements the error interface so warnings can be logged like errors.
func (w Warning) Error() string {
	msg := fmt.Sprintf("declared %d %s, found %d", w.Declared, w.Subject, w.Actual)
	if pos := w.Pos.String(); pos != "" {
		msg = pos + ": " + msg
	}
	return fmt.Sprintf("%s: %s", ErrCodeAdvisory, msg)
}

// Code returns the error code for this warning type.
func (w Warning) Code() Code {
	return ErrCodeAdvisory
}

// Warnings accumulates advisory mismatches in the order they were observed.
type Warnings []Warning

// Check appends a warning when declared and actual differ.
func (ws *Warnings) Check(pos Position, subject string, declared, actual int) {
	if declared != actual {
		*ws = append(*ws, Warning{Pos: pos, Subject: subject, Declared: declared, Actual: actual})
	}
}
