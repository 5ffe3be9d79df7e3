// Package model defines the core domain types shared across the pipeline:
// players, per-wave score rows, and the consumer-facing payload shapes.
package model

import "math"

// Dimension labels as they appear in the radar payload.
var DimensionLabels = []string{
	"Presença",
	"Popularidade",
	"Atividade",
	"Engajamento",
	"Difusão",
}

// ScoreRow is one player's normalized dimension scores plus the composite
// SIR index, as written to the Resultado CSV.
type ScoreRow struct {
	Name         string
	Presenca     float64
	Popularidade float64
	Atividade    float64
	Engajamento  float64
	Difusao      float64
	SirFinal     float64
}

// Player is one ranked entry in the overview payload.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	IsClient bool    `json:"isClient"`
	SirIndex float64 `json:"sirIndex"`
}

// SeriesPoint is one intra-wave time point: a date key plus one value per
// player name. The pipeline computes one point per wave, so overview series
// stay empty at this layer.
type SeriesPoint map[string]any

// Overview is the ranked overview artifact for one wave.
type Overview struct {
	Wave          string        `json:"wave"`
	Players       []Player      `json:"players"`
	Series        []SeriesPoint `json:"series"`
	LowConfidence bool          `json:"lowConfidence,omitempty"`
}

// RadarRow maps a "metric" label plus one score per player display name.
type RadarRow map[string]any

// Radar is the radar-chart artifact for one wave.
type Radar struct {
	Wave          string     `json:"wave"`
	Dimensions    []string   `json:"dimensions"`
	Data          []RadarRow `json:"data"`
	LowConfidence bool       `json:"lowConfidence,omitempty"`
}

// MetricsRow is a per-platform (or synthetic "total") metrics row.
type MetricsRow struct {
	Platform      string  `json:"platform"`
	Followers     float64 `json:"followers"`
	Subscribers   float64 `json:"subscribers"`
	Posts         float64 `json:"posts"`
	Videos        float64 `json:"videos"`
	Tweets        float64 `json:"tweets"`
	EngagementPct float64 `json:"engagementPct"`
	Likes         float64 `json:"likes"`
	Comments      float64 `json:"comments"`
	Shares        float64 `json:"shares"`
	Views         float64 `json:"views"`
	Mentions      float64 `json:"mentions"`
}

// Metrics is the per-player platform metrics artifact for one wave, with the
// previous wave's totals attached when available.
type Metrics struct {
	Wave                     string                  `json:"wave"`
	PlatformDataByPlayer     map[string][]MetricsRow `json:"platformDataByPlayer"`
	PlatformPrevDataByPlayer map[string][]MetricsRow `json:"platformPrevDataByPlayer"`
}

// WaveArtifacts bundles the three persisted artifacts of one computed wave.
type WaveArtifacts struct {
	Overview *Overview `json:"overview"`
	Radar    *Radar    `json:"radar"`
	Metrics  *Metrics  `json:"metrics"`
}

// Round2 rounds to two decimal places for presentation stability.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, the precision of ingested counters.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
