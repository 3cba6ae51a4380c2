// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import "errors"

// Error kinds returned by Service.Convert. Match them with errors.Is.
var (
	// ErrUnauthorized means the credential did not match the configured key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadInput means the payload was missing, empty or not valid base64.
	ErrBadInput = errors.New("bad input")
	// ErrConversionFailed means the converter rejected the document.
	ErrConversionFailed = errors.New("conversion failed")
)

// Error pairs an error kind with its cause.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
