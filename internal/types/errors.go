package types

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream wraps failures of the AI, image or weather providers.
	ErrUpstream = errors.New("upstream service failure")
)
