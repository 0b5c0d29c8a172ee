package objstore

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnauthenticated is returned if we've sent a request to the object store and received a response indicating
	// that we're unauthenticated, typically a 403 for AWS.
	ErrUnauthenticated = errors.New("failed to authenticate, please check that valid credentials have been provided")

	// ErrUnauthorized is returned if we've successfully authenticated against the object store, however, we've
	// attempted an operation where we don't have the valid permissions.
	ErrUnauthorized = errors.New("authenticated user does not have the permission to access this resource")

	// ErrEndpointResolutionFailed is returned if we've failed to resolve the storage endpoint for some reason.
	ErrEndpointResolutionFailed = errors.New("storage endpoint domain name resolution failed, " +
		"check region/endpoint are valid")
)

// NotFoundError indicates that something was not found.
type NotFoundError struct {
	Type string
	Name string
}

// Error implements the 'error' interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Type, e.Name)
}

// IsNotFoundError returns a boolean indicating whether the given error is a 'NotFoundError'.
func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// HandleError converts the given error into a user friendly error where possible, returning the given error when not.
func HandleError(err error) error {
	if handled := TryHandleError(err); handled != nil {
		return handled
	}

	return err
}

// TryHandleError converts the given error into a user friendly error where possible, returning <nil> where not.
func TryHandleError(err error) error {
	var dnsError *net.DNSError

	if errors.As(err, &dnsError) && dnsError.IsNotFound {
		return ErrEndpointResolutionFailed
	}

	return nil
}
