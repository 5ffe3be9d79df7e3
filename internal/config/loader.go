package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PENDULO_CONFIG is set
//  3. env (prefix PENDULO_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("PENDULO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PENDULO_ADDR, PENDULO_CAP_MIN, ...
	// Keys stay flat, so PENDULO_CAP_MIN -> cap_min matches the koanf tags.
	envProvider := env.Provider("PENDULO_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pendulo_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataRoot == "":
		return fmt.Errorf("%w: data_root must not be empty", ErrInvalidConfig)
	case c.PisoPositivo < 0:
		return fmt.Errorf("%w: piso_positivo must not be negative", ErrInvalidConfig)
	case c.CapMin <= c.PisoPositivo:
		return fmt.Errorf("%w: cap_min must exceed piso_positivo", ErrInvalidConfig)
	case c.DominanceFactor <= 1:
		return fmt.Errorf("%w: dominance_factor must exceed 1", ErrInvalidConfig)
	}
	wsum := c.WeightPresenca + c.WeightPopularidade + c.WeightAtividade +
		c.WeightEngajamento + c.WeightDifusao
	if wsum <= 0 {
		return fmt.Errorf("%w: dimension weights must sum to a positive value", ErrInvalidConfig)
	}
	return nil
}
