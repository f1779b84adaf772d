package apperr

import (
	"errors"
	"fmt"
)

// Error codes shared by every layer. The HTTP layer maps them to status codes.
const (
	CodeParse  = "PARSE_ERROR"
	CodeSchema = "SCHEMA_ERROR"
	CodeValue  = "VALUE_ERROR"

	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL"
)

// Coder is implemented by every error in the taxonomy.
type Coder interface {
	Code() string
}

// AppError is a coded error with an optional cause.
type AppError struct {
	code    string
	Message string
	Cause   error
}

// New returns an AppError with the given code and message.
func New(code, message string) *AppError {
	return &AppError{code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.Message)
}

func (e *AppError) Code() string  { return e.code }
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ValueError reports an argument outside its accepted range.
type ValueError struct {
	Field  string
	Value  any
	Reason string
}

// NewValueError builds a ValueError for field.
func NewValueError(field string, value any, reason string) *ValueError {
	return &ValueError{Field: field, Value: value, Reason: reason}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: %s", CodeValue, e.Field, e.Value, e.Reason)
}

func (e *ValueError) Code() string { return CodeValue }

// CodeOf returns the code of the first Coder in err's chain, or "".
func CodeOf(err error) string {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
