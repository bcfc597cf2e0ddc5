// Package config loads the engine configuration from YAML or JSON files
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/openrelief/missionmatch/core/metrics"
	"github.com/openrelief/missionmatch/infra/queue"
	"github.com/openrelief/missionmatch/infra/redisstore"
	"github.com/openrelief/missionmatch/infra/translate"
)

type Config struct {
	Redis          redisstore.Config `json:"redis"`
	Queue          queue.Config      `json:"queue"`
	Translator     translate.Config  `json:"translator"`
	Match          MatchConfig       `json:"match"`
	Metrics        metrics.Config    `json:"metrics"`
	PrometheusPort string            `json:"prometheus_port"`
}

// MatchConfig defines the geo matching and dispatch parameters.
type MatchConfig struct {
	// RadiusMiles is the search radius used for both responder fan-out and
	// requester matching.
	RadiusMiles float64 `json:"radius_miles"`
	// DispatchParallelism bounds the number of concurrent notification sends.
	DispatchParallelism int `json:"dispatch_parallelism"`
}

// SetDefaults applies sane defaults.
func (c *MatchConfig) SetDefaults() {
	if c.RadiusMiles <= 0 {
		c.RadiusMiles = 50
	}
	if c.DispatchParallelism <= 0 {
		c.DispatchParallelism = 4
	}
}

// Validate checks mandatory fields.
func (c MatchConfig) Validate() error {
	if c.RadiusMiles <= 0 {
		return fmt.Errorf("radius_miles must be positive")
	}
	if c.DispatchParallelism <= 0 {
		return fmt.Errorf("dispatch_parallelism must be positive")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("MM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Redis.SetDefaults()
	cfg.Queue.SetDefaults()
	cfg.Translator.SetDefaults()
	cfg.Match.SetDefaults()
	if err := cfg.Match.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
