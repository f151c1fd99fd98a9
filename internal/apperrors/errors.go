// Package apperrors holds the error taxonomy of the diagram pipeline.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the kind of failure.
type ErrorCode string

const (
	CodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeServiceError         ErrorCode = "SERVICE_ERROR"
	CodeMalformedResponse    ErrorCode = "MALFORMED_RESPONSE"
	CodeLookup               ErrorCode = "LOOKUP_ERROR"
	CodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	CodeGenerationInProgress ErrorCode = "GENERATION_IN_PROGRESS"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrServiceUnavailable   = &Error{Code: CodeServiceUnavailable}
	ErrServiceError         = &Error{Code: CodeServiceError}
	ErrMalformedResponse    = &Error{Code: CodeMalformedResponse}
	ErrLookup               = &Error{Code: CodeLookup}
	ErrInvalidRequest       = &Error{Code: CodeInvalidRequest}
	ErrGenerationInProgress = &Error{Code: CodeGenerationInProgress}
)

// Error is a classified pipeline error.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewServiceUnavailable(err error) *Error {
	return &Error{
		Code:    CodeServiceUnavailable,
		Message: "generation endpoint unreachable",
		Err:     err,
	}
}

func NewServiceError(status int, body string) *Error {
	return &Error{
		Code:    CodeServiceError,
		Message: fmt.Sprintf("generation endpoint returned status %d", status),
		Details: body,
	}
}

func NewMalformedResponse(details string, err error) *Error {
	return &Error{
		Code:    CodeMalformedResponse,
		Message: "generation endpoint returned an unexpected body",
		Details: details,
		Err:     err,
	}
}

func NewLookup(key string, supported []string) *Error {
	return &Error{
		Code:    CodeLookup,
		Message: fmt.Sprintf("unknown diagram type %q", key),
		Details: fmt.Sprintf("supported: %v", supported),
	}
}

func NewInvalidRequest(message string) *Error {
	return &Error{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

func NewGenerationInProgress() *Error {
	return &Error{
		Code:    CodeGenerationInProgress,
		Message: "a diagram is already being generated for this session",
	}
}

// CodeOf returns the code of the first *Error in the chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidRequest, CodeLookup:
		return http.StatusBadRequest
	case CodeGenerationInProgress:
		return http.StatusConflict
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeServiceError, CodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
