package errs

// Coded errors for the three failure families of the tools:
// input errors (bad JSON, missing/empty files, unknown columns),
// external errors (image service failures) and optional-capability errors.
// Input and external errors are fatal; optional errors are downgraded to warnings by callers.

import (
	"errors"
	"fmt"
)

type Code string

const (
	// Input errors
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeFileNotFound  Code = "FILE_NOT_FOUND"
	CodeEmptyInput    Code = "EMPTY_INPUT"
	CodeMissingColumn Code = "MISSING_COLUMN"
	CodeInvalidFormat Code = "INVALID_FORMAT"

	// External capability errors
	CodeGenerationFailed Code = "GENERATION_FAILED"
	CodeNoImage          Code = "NO_IMAGE"

	// Optional capability errors
	CodeOptionalUnavailable Code = "OPTIONAL_UNAVAILABLE"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInput reports whether err belongs to the input error family.
func IsInput(err error) bool {
	switch GetCode(err) {
	case CodeInvalidInput, CodeFileNotFound, CodeEmptyInput, CodeMissingColumn, CodeInvalidFormat:
		return true
	}
	return false
}

// UserMessage returns the message without the cause chain for *Error values.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
