package artifacts

import "errors"

// Package error definitions.
var (
	// ErrInputNotFound means the wave has no raw input file to compute from.
	ErrInputNotFound = errors.New("input not found")
)
