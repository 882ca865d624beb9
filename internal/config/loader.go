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
//  2. file (YAML) if PULSE_CONFIG is set
//  3. env (prefix PULSE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("PULSE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PULSE_ADDR, PULSE_MAX_LIMIT, ...
	// Map env keys like PULSE_MAX_LIMIT -> max_limit (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PULSE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pulse_")
		return s
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
	case c.ArticleSourceURL == "":
		return fmt.Errorf("%w: article_source_url must not be empty", ErrInvalidConfig)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	case c.CatalogTTLSeconds <= 0:
		return fmt.Errorf("%w: catalog_ttl_seconds must be positive", ErrInvalidConfig)
	case c.FetchConcurrency <= 0:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case c.DefaultLimit <= 0 || c.MaxLimit < c.DefaultLimit:
		return fmt.Errorf("%w: limits must satisfy 0 < default_limit <= max_limit", ErrInvalidConfig)
	case c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("%w: similarity_threshold must be within [0, 1]", ErrInvalidConfig)
	case c.RecencyWindowDays <= 0:
		return fmt.Errorf("%w: recency_window_days must be positive", ErrInvalidConfig)
	}
	for _, w := range []float64{c.TopicWeight, c.RecencyWeight, c.LengthWeight, c.DiversityWeight} {
		if w < 0 {
			return fmt.Errorf("%w: ranking weights must not be negative", ErrInvalidConfig)
		}
	}
	return nil
}
