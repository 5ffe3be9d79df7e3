package normalize

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithBounds sets the score floor (piso_positivo) and ceiling (cap_min).
func WithBounds(floor, ceil float64) Option {
	return func(n *Normalizer) {
		if floor >= 0 && ceil > floor {
			n.floor = floor
			n.cap = ceil
		}
	}
}

// WithDominanceFactor sets the max/runner-up ratio beyond which the log
// compression curve replaces linear scaling.
func WithDominanceFactor(f float64) Option {
	return func(n *Normalizer) {
		if f > 1 {
			n.dominanceFactor = f
		}
	}
}

// WithPlatformWeights sets per-platform multipliers applied to raw counters
// before aggregation. Non-positive weights are ignored.
func WithPlatformWeights(weights map[string]float64) Option {
	return func(n *Normalizer) {
		for plat, w := range weights {
			if w > 0 {
				n.platformWeights[plat] = w
			}
		}
	}
}
