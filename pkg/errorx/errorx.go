package errorx

import (
	"errors"
	"fmt"
)

// CodeError is a business error carrying an application error code.
// It implements the error interface, wraps an underlying cause and is
// recognizable through errors.Is/errors.As.
type CodeError struct {
	Code  int    // business error code
	Msg   string // human readable message
	cause error  // wrapped underlying error
}

// Error implements the standard error interface.
// With a cause the format is "msg: cause", otherwise just the message.
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap supports errors.Is/errors.As traversal of the cause chain.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without a cause.
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a business code and message to an underlying error.
// Usage: errorx.Wrap(err, CodeNotFound, "session not found")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode extracts the business code from an error chain.
// Non-CodeError values map to CodeServerBusy.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business error codes.
const (
	CodeSuccess          = 1000 // ok
	CodeInvalidParam     = 1001 // malformed or missing request fields
	CodeUserExist        = 1002 // email already registered
	CodeUserNotExist     = 1003 // user not found
	CodeInvalidPassword  = 1004 // wrong credentials
	CodeServerBusy       = 1005 // internal error
	CodeUnauthorized     = 1006 // missing/invalid/expired token
	CodeSessionActive    = 1007 // an active session already exists
	CodeNotFound         = 1008 // resource not found
	CodeSessionNotActive = 1009 // session missing or already ended
	CodeDBError          = 1010 // database error
	CodeCacheError       = 1011 // cache error
	CodeProviderError    = 1012 // every provider tier failed, no fallback left
)

// Predefined error instances, usable directly and with errors.Is.
var (
	ErrInvalidParam = New(CodeInvalidParam, "invalid request parameters")
	ErrServerBusy   = New(CodeServerBusy, "server busy")
)

// IsNotFound reports whether err is a not-found error
// (including gorm.ErrRecordNotFound wrapped by the repository layer).
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}
