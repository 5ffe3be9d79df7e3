package assemble

import "github.com/pendulolabs/pendulo/internal/domain/model"

// PctDelta returns the percent change from prev to curr, rounded to two
// decimals. ok is false when prev is zero: the delta is undefined and must
// be omitted rather than surfaced as Inf or NaN.
func PctDelta(curr, prev float64) (delta float64, ok bool) {
	if prev == 0 {
		return 0, false
	}
	return model.Round2((curr - prev) / prev * 100), true
}
