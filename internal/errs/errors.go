package errs

import (
	"errors"
	"fmt"
)

// ValidationError indicates the request itself is malformed: bad date range,
// out-of-bounds threshold, non-positive amount. Nothing is mutated.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// NotFoundError indicates a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// AuthorizationError indicates the resource exists but does not belong to the
// caller. The message never names the true owner.
type AuthorizationError struct {
	Resource string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("you don't have access to this %s", e.Resource)
}

func NewAuthorizationError(resource string) error {
	return &AuthorizationError{Resource: resource}
}

func IsAuthorizationError(err error) bool {
	var authorizationError *AuthorizationError
	return errors.As(err, &authorizationError)
}

// ErrRateLimited is returned when admission control denies a request. The
// gated operation is never attempted.
var ErrRateLimited = errors.New("too many requests, please try again later")
