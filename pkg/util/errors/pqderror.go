package errors

import (
	"fmt"
)

// PqdError - coded error returned by the sdk packages
type PqdError struct {
	formattedErr bool
	Code         int    `json:"code"`
	Message      string `json:"message"`
	formatArgs   []interface{}
	cause        error
}

// New - Creates a new Pqd Error
func New(errCode int, errMessage string) *PqdError {
	return &PqdError{formattedErr: false, Code: errCode, Message: errMessage}
}

// Newf - Creates a new formatted Pqd Error
func Newf(errCode int, errMessage string) *PqdError {
	return &PqdError{formattedErr: true, Code: errCode, Message: errMessage}
}

// Wrap - add additional data to a defined error
func Wrap(pqdError *PqdError, info string) *PqdError {
	message := pqdError.Message
	if info != "" {
		message += fmt.Sprintf(": %s", info)
	}
	return &PqdError{
		formattedErr: pqdError.formattedErr,
		Code:         pqdError.Code,
		Message:      message,
		formatArgs:   pqdError.formatArgs,
		cause:        pqdError.cause,
	}
}

// FormatError - Creates a Error with applied formatting
func (e *PqdError) FormatError(args ...interface{}) error {
	return &PqdError{formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: args, cause: e.cause}
}

// WithCause - returns a copy of the error carrying the underlying cause
func (e *PqdError) WithCause(cause error) *PqdError {
	return &PqdError{
		formattedErr: e.formattedErr,
		Code:         e.Code,
		Message:      e.Message,
		formatArgs:   e.formatArgs,
		cause:        cause,
	}
}

// Error - Returns the formatted error message
func (e *PqdError) Error() string {
	if e.formattedErr {
		formattedMsg := fmt.Sprintf(e.Message, e.formatArgs...)
		return fmt.Sprintf("[Error Code %d] - %s", e.Code, formattedMsg)
	}

	return fmt.Sprintf("[Error Code %d] - %s", e.Code, e.Message)
}

// Text - the message without the code prefix, suitable for showing to a user
func (e *PqdError) Text() string {
	if e.formattedErr {
		return fmt.Sprintf(e.Message, e.formatArgs...)
	}
	return e.Message
}

// GetErrorCode - Returns the error code
func (e *PqdError) GetErrorCode() int {
	return e.Code
}

// Unwrap - Returns the underlying cause, if any
func (e *PqdError) Unwrap() error {
	return e.cause
}

// Is - two PqdErrors match when their codes match
func (e *PqdError) Is(target error) bool {
	t, ok := target.(*PqdError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
