package model

import (
	"fmt"
)

// NotFoundError is an error signaling that a record was not found in the
// database
type NotFoundError string

// Error implements the error interface
func (e NotFoundError) Error() string {
	return string(e)
}

// NotFoundErrorFmt returns a NotFoundError from the passed format string and parameters
func NotFoundErrorFmt(format string, params ...any) NotFoundError {
	return NotFoundError(fmt.Sprintf(format, params...))
}

// AlreadyExistsError is an error signaling that a record with the same
// identity already exists
type AlreadyExistsError string

// Error implements the error interface
func (e AlreadyExistsError) Error() string {
	return string(e)
}

// AlreadyExistsErrorFmt returns an AlreadyExistsError from the passed format string and parameters
func AlreadyExistsErrorFmt(format string, params ...any) AlreadyExistsError {
	return AlreadyExistsError(fmt.Sprintf(format, params...))
}

// InvalidArgumentError is an error signaling that a caller-provided input is
// missing or malformed; such requests are rejected before any persistence
// attempt
type InvalidArgumentError string

// Error implements the error interface
func (e InvalidArgumentError) Error() string {
	return string(e)
}

// InvalidArgumentErrorFmt returns an InvalidArgumentError from the passed format string and parameters
func InvalidArgumentErrorFmt(format string, params ...any) InvalidArgumentError {
	return InvalidArgumentError(fmt.Sprintf(format, params...))
}
