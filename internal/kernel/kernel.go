// Package kernel runs the wave computation pipeline: read one raw input
// file, normalize the counters into dimension scores, and attach composite
// indexes. A bounded worker pool bounds concurrent computations so one burst
// of uncached waves cannot exhaust the process.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pendulolabs/pendulo/internal/domain/ingest"
	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	"github.com/pendulolabs/pendulo/pkg/logger"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// Job identifies one wave computation request.
type Job struct {
	ID        uuid.UUID
	Client    string
	Wave      model.Wave
	InputPath string
	Sheet     string
}

// ExportRow is one long-format raw metric observation, kept for audit
// alongside the scored output.
type ExportRow struct {
	Name        string
	Platform    string
	Metric      string
	PeriodStart string
	PeriodEnd   string
	Value       float64
}

// Result carries everything one kernel run produced.
type Result struct {
	Scores           []model.ScoreRow
	Export           []ExportRow
	LowConfidence    bool
	InsufficientDims []string
}

// Kernel executes the ingest, normalize, and score stages for one job.
type Kernel struct {
	normalizer *normalize.Normalizer
	scorer     *scoring.Scorer
	logger     logger.Logger
}

// New creates a Kernel with configuration options.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		normalizer: normalize.New(),
		scorer:     scoring.New(),
		logger:     logger.Get().Named("kernel"),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Run executes the pipeline for one job. Input taxonomy errors pass through
// unwrapped so callers can map them to the right status; anything else,
// including a panic in the pipeline, surfaces as ErrComputationFailed.
func (k *Kernel) Run(ctx context.Context, job Job) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error(ctx, "pipeline panic",
				logger.String("job_id", job.ID.String()),
				logger.Any("panic", r),
			)
			res = nil
			err = fmt.Errorf("pipeline panic: %v: %w", r, ErrComputationFailed)
		}
	}()

	var readOpts []ingest.Option
	if job.Sheet != "" {
		readOpts = append(readOpts, ingest.WithSheet(job.Sheet))
	}
	table, err := ingest.ReadTable(job.InputPath, readOpts...)
	if err != nil {
		if errors.Is(err, ingest.ErrMalformedInput) {
			metrics.RecordParseError()
		}
		if errors.Is(err, ingest.ErrInputNotFound) || errors.Is(err, ingest.ErrMalformedInput) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %v: %w", job.InputPath, err, ErrComputationFailed)
	}

	norm, err := k.normalizer.Dimensions(table)
	if err != nil && !errors.Is(err, normalize.ErrInsufficientData) {
		return nil, fmt.Errorf("normalizing: %v: %w", err, ErrComputationFailed)
	}
	if norm.LowConfidence {
		k.logger.Warn(ctx, "dimensions without signal, players floored",
			logger.String("job_id", job.ID.String()),
			logger.Any("dimensions", norm.InsufficientDims),
		)
	}

	return &Result{
		Scores:           k.scorer.Score(norm.Rows),
		Export:           exportRows(table),
		LowConfidence:    norm.LowConfidence,
		InsufficientDims: norm.InsufficientDims,
	}, nil
}

// exportRows flattens the canonicalized table into long format, one row per
// player, platform, and metric actually present in the input.
func exportRows(t *ingest.RawTable) []ExportRow {
	out := make([]ExportRow, 0, len(t.Rows)*len(t.Columns))
	for i := range t.Rows {
		row := &t.Rows[i]
		for _, col := range t.Columns {
			plat, metric, ok := splitColumn(col)
			if !ok {
				continue
			}
			v, present := row.Values[col]
			if !present {
				continue
			}
			out = append(out, ExportRow{
				Name:        row.Name,
				Platform:    plat,
				Metric:      metric,
				PeriodStart: row.PeriodStart,
				PeriodEnd:   row.PeriodEnd,
				Value:       v,
			})
		}
	}
	return out
}

func splitColumn(col string) (platform, metric string, ok bool) {
	for _, plat := range ingest.Platforms {
		suffix := "_" + plat
		if strings.HasSuffix(col, suffix) {
			return plat, strings.TrimSuffix(col, suffix), true
		}
	}
	return "", "", false
}
