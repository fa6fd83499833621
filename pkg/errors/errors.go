package errors

import (
	"errors"
	"fmt"
)

var (
	ErrImportNotFound      = errors.New("import not found")
	ErrOriginalFileMissing = errors.New("original file not found in storage")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrInvalidFileFormat   = errors.New("invalid file format")
)

// InputError marks a failure caused by the uploaded document itself rather
// than by the system. Transport layers map it to a 4xx status.
type InputError struct {
	Msg string
}

func (e InputError) Error() string {
	return e.Msg
}

func NewInputError(format string, args ...interface{}) error {
	return InputError{Msg: fmt.Sprintf(format, args...)}
}

func IsInputError(err error) bool {
	var ie InputError
	return errors.As(err, &ie)
}

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}
