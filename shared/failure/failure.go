package failure

import (
	"errors"
	"net/http"
)

// Machine-readable codes surfaced in the error body alongside the detail
// message.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Failure is a wrapper for error details mapped onto standard HTTP response
// codes. Status drives the response code; Detail and Code form the body.
type Failure struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// GenericInternal is the body sent for any unclassified failure. Internal
// detail never reaches the client.
var GenericInternal = &Failure{
	Status: http.StatusInternalServerError,
	Detail: "an internal server error occurred",
	Code:   CodeInternal,
}

func (e *Failure) Error() string {
	return e.Detail
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Status: http.StatusBadRequest,
			Detail: err.Error(),
			Code:   CodeValidation,
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with
// detail set from string.
func BadRequestFromString(detail string) error {
	return &Failure{
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   CodeValidation,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(detail string) error {
	return &Failure{
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   CodeUnauthorized,
	}
}

// Forbidden returns a new Failure for rows the caller does not own.
func Forbidden(detail string) error {
	return &Failure{
		Status: http.StatusForbidden,
		Detail: detail,
		Code:   CodeForbidden,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(detail string) error {
	return &Failure{
		Status: http.StatusNotFound,
		Detail: detail,
		Code:   CodeNotFound,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(detail string) error {
	return &Failure{
		Status: http.StatusConflict,
		Detail: detail,
		Code:   CodeConflict,
	}
}

// InternalError hides the underlying error behind the generic body.
func InternalError(err error) error {
	if err != nil {
		return GenericInternal
	}

	return nil
}

// GetStatus returns the HTTP status of an error interface.
func GetStatus(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Status
	}

	return http.StatusInternalServerError
}

// As unwraps an error into a *Failure, defaulting to the generic internal
// failure for anything unclassified.
func As(err error) *Failure {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail
	}

	return GenericInternal
}
