// Package apperror defines the error kinds surfaced by the gateways so callers
// branch on the kind of failure instead of on message text.
package apperror

import (
	"errors"
	"fmt"
)

// AuthenticationError reports rejected or missing credentials
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "invalid credentials"
	}
	return e.Message
}

// NotFoundError reports a resource the remote service does not know
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// RequestError reports a non-success status or a transport failure.
// Status is 0 when no response was received.
type RequestError struct {
	Op     string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError reports locally persisted data that could not be decoded
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsRequest(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
