// Package scoring combines the five normalized dimension scores into the
// composite SIR index.
package scoring

import (
	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
)

// Default dimension weights. They happen to sum to 100, but the composite
// divides by the actual sum so arbitrary weight sets remain valid.
const (
	defaultWeightPresenca     = 12.0
	defaultWeightPopularidade = 24.0
	defaultWeightAtividade    = 16.0
	defaultWeightEngajamento  = 28.0
	defaultWeightDifusao      = 20.0
)

// Weights holds the per-dimension weights of the composite index.
type Weights struct {
	Presenca     float64
	Popularidade float64
	Atividade    float64
	Engajamento  float64
	Difusao      float64
}

// DefaultWeights returns the product-default dimension weights.
func DefaultWeights() Weights {
	return Weights{
		Presenca:     defaultWeightPresenca,
		Popularidade: defaultWeightPopularidade,
		Atividade:    defaultWeightAtividade,
		Engajamento:  defaultWeightEngajamento,
		Difusao:      defaultWeightDifusao,
	}
}

func (w Weights) sum() float64 {
	return w.Presenca + w.Popularidade + w.Atividade + w.Engajamento + w.Difusao
}

// Scorer computes composite SIR indexes from dimension rows. It is a pure
// function of its inputs: no hidden state, fully deterministic.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Composite returns the weighted average of one row's dimension scores,
// rounded to two decimals. A weighted average of bounded inputs stays within
// the same [floor, cap] bounds by construction.
func (s *Scorer) Composite(row normalize.Row) float64 {
	wsum := s.weights.sum()
	if wsum <= 0 {
		return 0
	}
	total := s.weights.Presenca*row.Presenca +
		s.weights.Popularidade*row.Popularidade +
		s.weights.Atividade*row.Atividade +
		s.weights.Engajamento*row.Engajamento +
		s.weights.Difusao*row.Difusao
	return model.Round2(total / wsum)
}

// Score attaches composite indexes to every normalized row, preserving
// ingestion order.
func (s *Scorer) Score(rows []normalize.Row) []model.ScoreRow {
	out := make([]model.ScoreRow, len(rows))
	for i, row := range rows {
		out[i] = model.ScoreRow{
			Name:         row.Name,
			Presenca:     row.Presenca,
			Popularidade: row.Popularidade,
			Atividade:    row.Atividade,
			Engajamento:  row.Engajamento,
			Difusao:      row.Difusao,
			SirFinal:     s.Composite(row),
		}
	}
	return out
}
