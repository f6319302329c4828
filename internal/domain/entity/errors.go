package entity

import "errors"

// Sentinel errors for the monitoring domain.
var (
	// ErrUnsupportedSource indicates that no resolver rule matches a source
	// URL. The source fails loudly instead of being guessed at.
	ErrUnsupportedSource = errors.New("unsupported source URL")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")
)
