package rsvp

import "errors"

// Errors returned by the engine and its configuration.
var (
	ErrNoPresenter     = errors.New("no presenter attached")
	ErrNoText          = errors.New("no text loaded")
	ErrIndexOutOfRange = errors.New("word index out of range")
	ErrInvalidRate     = errors.New("rate must be a positive number of words per minute")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
