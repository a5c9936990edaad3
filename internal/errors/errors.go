// Package errors defines the typed error kinds used across the application.
// Failures are categorized so callers can react to the kind without parsing
// message strings, while the user-facing policy stays "never crash the request".
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown    = "UNKNOWN"
	CodeConfig     = "CONFIG"
	CodeFAQLoad    = "FAQ_LOAD"
	CodeGeneration = "GENERATION"
	CodeLogWrite   = "LOG_WRITE"
)

// Error is an application error carrying a code and an optional cause.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// New creates an application error with the given code, message, and cause.
func New(code, message string, cause error) error {
	return &Error{code: code, message: message, err: cause}
}

// Code returns the application error code of err, or CodeUnknown if err does
// not carry one.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeUnknown
}

// NewFAQLoadError reports a failure to load or parse the FAQ file.
func NewFAQLoadError(message string, cause error) error {
	return New(CodeFAQLoad, message, cause)
}

// NewGenerationError reports a failure from the language model call.
func NewGenerationError(message string, cause error) error {
	return New(CodeGeneration, message, cause)
}

// NewLogWriteError reports a failure to persist an interaction log row.
func NewLogWriteError(message string, cause error) error {
	return New(CodeLogWrite, message, cause)
}
