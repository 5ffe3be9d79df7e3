// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Keys stay flat so env overrides map one-to-one onto koanf tags.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataRoot is the directory holding raw/ and processed/ trees.
	DataRoot string `koanf:"data_root"`

	// WorkerCount sets the number of scoring kernel workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the kernel job queue.
	QueueSize int `koanf:"queue_size"`

	// CacheMaxAgeSecs controls the Cache-Control header on artifact reads.
	CacheMaxAgeSecs int `koanf:"cache_max_age_secs"`

	// Normalization bounds. Scores land in [PisoPositivo, CapMin].
	PisoPositivo    float64 `koanf:"piso_positivo"`
	CapMin          float64 `koanf:"cap_min"`
	DominanceFactor float64 `koanf:"dominance_factor"`

	// Dimension weights for the composite SIR index.
	WeightPresenca     float64 `koanf:"w_presenca"`
	WeightPopularidade float64 `koanf:"w_pop"`
	WeightAtividade    float64 `koanf:"w_ativ"`
	WeightEngajamento  float64 `koanf:"w_eng"`
	WeightDifusao      float64 `koanf:"w_dif"`

	// Platform weights applied to raw counters before aggregation.
	WeightFacebook  float64 `koanf:"w_facebook"`
	WeightTwitter   float64 `koanf:"w_twitter"`
	WeightInstagram float64 `koanf:"w_instagram"`
	WeightTikTok    float64 `koanf:"w_tiktok"`

	// ClientPlayers maps a client slug to the player slug owned by that
	// tenant; the matching player is flagged isClient in the overview.
	ClientPlayers map[string]string `koanf:"client_players"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DataRoot:           "data",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          64,
		CacheMaxAgeSecs:    120,
		PisoPositivo:       1.0,
		CapMin:             98.0,
		DominanceFactor:    10.0,
		WeightPresenca:     12.0,
		WeightPopularidade: 24.0,
		WeightAtividade:    16.0,
		WeightEngajamento:  28.0,
		WeightDifusao:      20.0,
		WeightFacebook:     0.5,
		WeightTwitter:      0.1,
		WeightInstagram:    1.0,
		WeightTikTok:       1.0,
		ClientPlayers:      map[string]string{},
	}
}
