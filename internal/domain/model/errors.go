package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrBadWave = errors.New("invalid wave identifier")
)
