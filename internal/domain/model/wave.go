package model

import (
	"fmt"
	"regexp"
	"strconv"
)

var wavePattern = regexp.MustCompile(`^[Pp](\d+)$`)

// Wave identifies one measurement period under a client, e.g. P1, P2, ...
type Wave struct {
	N int
}

// ParseWave parses a wave identifier. Input is case-insensitive; the
// canonical form is uppercase.
func ParseWave(s string) (Wave, error) {
	m := wavePattern.FindStringSubmatch(s)
	if m == nil {
		return Wave{}, fmt.Errorf("%w: %q", ErrBadWave, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Wave{}, fmt.Errorf("%w: %q", ErrBadWave, s)
	}
	return Wave{N: n}, nil
}

// IsWaveID reports whether s is a valid wave identifier.
func IsWaveID(s string) bool {
	_, err := ParseWave(s)
	return err == nil
}

// String returns the canonical identifier, e.g. "P3".
func (w Wave) String() string {
	return "P" + strconv.Itoa(w.N)
}

// Prev returns the immediately preceding wave, or false for P1.
func (w Wave) Prev() (Wave, bool) {
	if w.N <= 1 {
		return Wave{}, false
	}
	return Wave{N: w.N - 1}, true
}
