package model

import "errors"

// ErrNotFound is returned by stores when the requested key does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidSession is returned when a session token is malformed, expired or
// revoked.
var ErrInvalidSession = errors.New("invalid session")

// RejectionError is a well-formed request the identity provider declined.
// Message is the provider's text and is meant to be shown to the user as is.
type RejectionError struct {
	Code    string
	Message string
}

// NewRejectionError creates a RejectionError, falling back to the code when
// the provider sent no message.
func NewRejectionError(code, message string) *RejectionError {
	if message == "" {
		message = code
	}
	return &RejectionError{Code: code, Message: message}
}

func (e *RejectionError) Error() string {
	return e.Message
}
