package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the dimension weights. Weight sets with a non-positive
// sum are rejected and the defaults kept.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.sum() > 0 {
			s.weights = w
		}
	}
}
