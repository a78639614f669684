package checkout

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Code is the closed set of failures a checkout can end in
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyEnrolled  Code = "ALREADY_ENROLLED"
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeUpstreamFailure  Code = "UPSTREAM_FAILURE"
	CodeValidation       Code = "VALIDATION"
	CodeInternal         Code = "INTERNAL"
)

// Error carries a Code, a client-safe message and the underlying cause.
// Only Code and Message are ever shown to the client.
type Error struct {
	Code     Code
	Message  string
	CourseID uint
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.CourseID != 0 {
		msg += fmt.Sprintf(" (course %d)", e.CourseID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the code to the status returned by the API
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyEnrolled:
		return http.StatusConflict
	case CodeInvalidSignature:
		return http.StatusBadRequest
	case CodeUpstreamFailure:
		return http.StatusBadGateway
	case CodeValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) ErrorCode() string {
	return string(e.Code)
}

func (e *Error) PublicMessage() string {
	return e.Message
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func courseError(code Code, courseID uint, message string) *Error {
	return &Error{Code: code, Message: message, CourseID: courseID}
}

func internalError(err error, context string) *Error {
	return &Error{Code: CodeInternal, Message: "Something went wrong, please try again", Err: errors.Wrap(err, context)}
}

// AsError extracts a checkout error; anything else is reported as internal
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalError(err, "unclassified")
}

// IsCode reports whether err is a checkout error with the given code
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
