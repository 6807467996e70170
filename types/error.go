package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the module.
type ErrorCode string

// Schema-level error codes. These abort the whole operation.
const (
	ErrSchemaShape       ErrorCode = "SCHEMA_SHAPE"
	ErrMalformedWireNode ErrorCode = "MALFORMED_WIRE_NODE"
	ErrInvalidProperty   ErrorCode = "INVALID_PROPERTY"
	ErrAgentList         ErrorCode = "AGENT_LIST"
)

// Record-level error codes. These are recovered locally.
const (
	ErrValidatorMismatch ErrorCode = "VALIDATOR_MISMATCH"
	ErrGateRejection     ErrorCode = "GATE_REJECTION"
)

// ErrInternalError is used for failures that are not the caller's fault.
const ErrInternalError ErrorCode = "INTERNAL_ERROR"

// Coded is implemented by domain errors that carry an ErrorCode.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// Error represents a structured error with code, message, and location.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (at %s)", e.Message, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// ErrorCode implements Coded.
func (e *Error) ErrorCode() ErrorCode {
	return e.Code
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithPath records the schema or record location the error refers to.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// GetErrorCode extracts the error code from an error, following wrap chains.
func GetErrorCode(err error) ErrorCode {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}
