// Package assemble turns scored player rows into the three consumer-facing
// artifacts: ranked overview, radar series, and per-platform metrics with
// period-over-period context.
package assemble

import (
	"sort"

	"github.com/pendulolabs/pendulo/internal/domain/model"
)

// Assembler builds wave artifacts from score rows.
type Assembler struct {
	// clientPlayer is the slug of the tenant-owned player for the client
	// being assembled; resolved by the caller from configuration, never
	// inferred from the scoring output.
	clientPlayer string
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithClientPlayer flags the player with this slug as the tenant's own
// entity in the overview.
func WithClientPlayer(slug string) Option {
	return func(a *Assembler) {
		a.clientPlayer = slug
	}
}

// New creates an Assembler with configuration options.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Overview ranks players descending by SIR index. Ties keep ingestion order
// so repeated runs stay byte-stable.
func (a *Assembler) Overview(wave string, rows []model.ScoreRow, lowConfidence bool) *model.Overview {
	ranked := make([]model.ScoreRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SirFinal > ranked[j].SirFinal
	})

	players := make([]model.Player, len(ranked))
	for i, r := range ranked {
		id := model.Slugify(r.Name)
		players[i] = model.Player{
			ID:       id,
			Name:     r.Name,
			Color:    model.ColorFor(r.Name),
			IsClient: a.clientPlayer != "" && id == a.clientPlayer,
			SirIndex: model.Round2(r.SirFinal),
		}
	}
	return &model.Overview{
		Wave:          wave,
		Players:       players,
		Series:        []model.SeriesPoint{},
		LowConfidence: lowConfidence,
	}
}

// Radar emits one row per dimension, each mapping player display names to
// that dimension's score, ready for a multi-series radar chart.
func (a *Assembler) Radar(wave string, rows []model.ScoreRow, lowConfidence bool) *model.Radar {
	pick := []func(model.ScoreRow) float64{
		func(r model.ScoreRow) float64 { return r.Presenca },
		func(r model.ScoreRow) float64 { return r.Popularidade },
		func(r model.ScoreRow) float64 { return r.Atividade },
		func(r model.ScoreRow) float64 { return r.Engajamento },
		func(r model.ScoreRow) float64 { return r.Difusao },
	}

	data := make([]model.RadarRow, len(model.DimensionLabels))
	for i, label := range model.DimensionLabels {
		row := model.RadarRow{"metric": label}
		for _, r := range rows {
			row[r.Name] = model.Round2(pick[i](r))
		}
		data[i] = row
	}
	return &model.Radar{
		Wave:          wave,
		Dimensions:    append([]string(nil), model.DimensionLabels...),
		Data:          data,
		LowConfidence: lowConfidence,
	}
}

// Metrics emits the minimal per-player metrics payload: one synthetic
// "total" row per player carrying the engagement dimension score, plus the
// previous wave's totals when the caller found any. A missing previous wave
// is represented by an empty map, never an error.
func (a *Assembler) Metrics(wave string, rows []model.ScoreRow, prev map[string][]model.MetricsRow) *model.Metrics {
	curr := make(map[string][]model.MetricsRow, len(rows))
	for _, r := range rows {
		curr[model.Slugify(r.Name)] = []model.MetricsRow{{
			Platform:      "total",
			EngagementPct: model.Round2(r.Engajamento),
		}}
	}
	if prev == nil {
		prev = map[string][]model.MetricsRow{}
	}
	return &model.Metrics{
		Wave:                     wave,
		PlatformDataByPlayer:     curr,
		PlatformPrevDataByPlayer: prev,
	}
}
