package service

import "errors"

// Package error definitions.
var (
	// ErrAlreadyStarted is returned by Start on a running service.
	ErrAlreadyStarted = errors.New("service already started")
)
