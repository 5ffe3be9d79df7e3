package kernel

import (
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	"github.com/pendulolabs/pendulo/pkg/logger"
)

// Option applies a configuration option to the Kernel.
type Option func(*Kernel)

// WithNormalizer sets the dimension normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(k *Kernel) {
		if n != nil {
			k.normalizer = n
		}
	}
}

// WithScorer sets the composite scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(k *Kernel) {
		if s != nil {
			k.scorer = s
		}
	}
}

// WithLogger sets the kernel logger.
func WithLogger(l logger.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithWorkerCount sets how many workers run jobs concurrently.
func WithWorkerCount(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workerCount = n
		}
	}
}

// WithQueueSize bounds how many jobs may wait for a worker.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithPoolLogger sets the pool logger.
func WithPoolLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
