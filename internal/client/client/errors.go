package client

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrWeakPassword          = errors.New("weak password")
	ErrUnreachable           = errors.New("server unreachable")
	ErrServer                = errors.New("server error")
)

// APIError is the failure returned by every Client operation. Kind is one of
// the sentinel errors above, so callers match with errors.Is. Status is zero
// when no response was received. Detail carries the server-provided message,
// if any.
type APIError struct {
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	default:
		return e.Kind.Error()
	}
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the most specific human-readable text for err: the server
// detail when present, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
