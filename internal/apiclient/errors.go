// internal/apiclient/errors.go
package apiclient

import (
	"errors"
	"fmt"
)

// AuthError is a login rejection. Message is the server-provided reason
// when one was given.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// FetchError is a non-2xx response to a collection GET. The prior
// collection value must be retained; the error carries enough to build
// a resource-specific toast.
type FetchError struct {
	Resource string
	Status   int
	Message  string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.Resource, e.Status)
}

// SubmitError is a non-2xx response to a create POST. Message is the
// server's error text, surfaced verbatim so the user can correct the
// form and resubmit.
type SubmitError struct {
	Status  int
	Message string
}

func (e *SubmitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("submission rejected: status %d", e.Status)
	}
	return e.Message
}

// NetworkError is a transport-level failure (DNS, refused connection,
// timeout). It is terminal for the triggering operation; nothing is
// retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
