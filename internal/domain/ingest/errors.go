package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	// ErrInputNotFound marks a missing raw metrics file; user-correctable
	// by uploading one.
	ErrInputNotFound = errors.New("raw input not found")

	// ErrMalformedInput marks an unparsable table or one lacking the
	// player identity column; user-correctable by fixing the file.
	ErrMalformedInput = errors.New("malformed input table")
)
