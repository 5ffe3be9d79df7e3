package kernel

import "errors"

// Package error definitions.
var (
	// ErrComputationFailed marks pipeline failures that are neither a
	// missing input nor a malformed one.
	ErrComputationFailed = errors.New("computation failed")

	// ErrPoolClosed is returned by Submit after the pool has been stopped.
	ErrPoolClosed = errors.New("pool closed")
)
