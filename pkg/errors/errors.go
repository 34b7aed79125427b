package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodePolicy       = "POLICY_VIOLATION"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the error every service returns to the HTTP layer.
// Reason narrows Code to a concrete rule (SLOTS_FULL, EV_NOT_AVAILABLE, ...).
type AppError struct {
	Code       string         `json:"code"`
	Reason     string         `json:"reason,omitempty"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	label := e.Code
	if e.Reason != "" {
		label = e.Reason
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", label, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", label, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code and, when the target carries one, on Reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// WithDetails returns a copy so shared sentinels are never mutated.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func newError(code, reason, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Reason:     reason,
		Message:    message,
		HTTPStatus: status,
	}
}

func Validation(message string, details map[string]any) *AppError {
	e := newError(CodeValidation, "", message, http.StatusBadRequest)
	e.Details = details
	return e
}

func Conflict(reason, message string) *AppError {
	return newError(CodeConflict, reason, message, http.StatusConflict)
}

func NotFound(reason, message string) *AppError {
	return newError(CodeNotFound, reason, message, http.StatusNotFound)
}

func Policy(reason, message string) *AppError {
	return newError(CodePolicy, reason, message, http.StatusUnprocessableEntity)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, "", message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, "", message, http.StatusForbidden)
}

func Internal(message string, err error) *AppError {
	e := newError(CodeInternal, "", message, http.StatusInternalServerError)
	e.Err = err
	return e
}

// AsAppError unwraps err to an AppError, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
