// Package apperr defines the error taxonomy shared by the service layer
// and the HTTP boundary, and the mapping from error kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed or missing input, detectable before
	// touching the store.
	KindValidation Kind = iota
	// KindForbidden marks a well-formed request outside the caller's
	// ownership boundary.
	KindForbidden
	// KindIntegrity marks a reference to a related entity that does not
	// exist or is not owned by the caller.
	KindIntegrity
	// KindConflict marks a uniqueness violation.
	KindConflict
	// KindNotFound marks a syntactically valid id with no visible entity.
	KindNotFound
	// KindInternal marks an unexpected fault from a collaborator.
	KindInternal
)

// Error carries a kind, a caller-facing message and optional details.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Forbidden returns a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Integrity returns a KindIntegrity error. details may enumerate the
// offending ids.
func Integrity(message string, details any) *Error {
	return &Error{Kind: KindIntegrity, Message: message, Details: details}
}

// Conflict returns a KindConflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound returns a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal wraps an unexpected collaborator fault. The wrapped error is
// for operator logs only; callers see a generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// As unwraps err into *Error, or wraps it as Internal when it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// HTTPStatus maps an error to the status code the boundary reports.
func HTTPStatus(err error) int {
	switch As(err).Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindIntegrity:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
