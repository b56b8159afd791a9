package dataset

import "errors"

var (
	// ErrUnknownGenerator indicates no generator is registered under a name.
	ErrUnknownGenerator = errors.New("unknown generator")
	// ErrInvalidOptions indicates generation options out of range.
	ErrInvalidOptions = errors.New("invalid generation options")
)
