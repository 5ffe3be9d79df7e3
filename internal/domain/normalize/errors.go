package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	// ErrInsufficientData marks a wave where no dimension had any positive
	// raw signal. The result is still populated with floor values so
	// reports can render; callers should degrade, not fail.
	ErrInsufficientData = errors.New("insufficient data for normalization")
)
