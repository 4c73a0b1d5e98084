package qmlfix

import "errors"

var (
	// ErrInvalidEncoding is returned for input that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

	// ErrInvalidID is returned when the configured id is not an identifier.
	ErrInvalidID = errors.New("invalid id")
)
