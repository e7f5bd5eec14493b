package errors

import (
	"errors"
	"fmt"
)

// Re-exported so callers only need one errors import.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error is an error carrying a machine readable code.
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError is the default Error implementation.
type AppError struct {
	code    string
	message string
	err     error
	fields  map[string]string
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

// Message returns the client-safe message without the wrapped cause.
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates an application error.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// Wrap annotates err with message, keeping the code of any coded error in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return NewAppError(CodeOf(err), message, err)
}

// Fields returns per-field validation messages, if any.
func (e *AppError) Fields() map[string]string {
	return e.fields
}

// CodeOf returns the code of the first coded error in the chain, or ErrInternal.
func CodeOf(err error) string {
	var coded Error
	if As(err, &coded) {
		return coded.Code()
	}
	return ErrInternal
}

// Validation creates an INVALID_ARGUMENT error with per-field messages.
func Validation(fields map[string]string) *AppError {
	return &AppError{code: ErrInvalidArgument, message: "Validation failed", fields: fields}
}

func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

func InvalidArgument(message string) *AppError {
	return NewAppError(ErrInvalidArgument, message, nil)
}

func Unauthenticated(message string) *AppError {
	return NewAppError(ErrUnauthenticated, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(ErrUnauthorized, message, nil)
}

func Conflict(message string) *AppError {
	return NewAppError(ErrConflict, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrInternal, message, err)
}
