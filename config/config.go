// Package config loads the service configuration from YAML or JSON with
// environment overrides.
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

	"github.com/haulware/routeopt/core/economics"
	"github.com/haulware/routeopt/core/geomatrix"
	"github.com/haulware/routeopt/core/metrics"
	"github.com/haulware/routeopt/core/solver"
	"github.com/haulware/routeopt/infra/cache"
	"github.com/haulware/routeopt/infra/fleetapi"
	"github.com/haulware/routeopt/infra/maps"
	"github.com/haulware/routeopt/infra/rates"
	"github.com/haulware/routeopt/infra/store"
	"github.com/haulware/routeopt/infra/weather"
)

// RunLogConfig defines where batch run records are appended.
type RunLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *RunLogConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "optimization.log"
	}
}

// SchedulerConfig controls the periodic batch trigger of the service loop.
type SchedulerConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// SetDefaults applies sane defaults.
func (c *SchedulerConfig) SetDefaults() {
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 60
	}
}

// Config is the root configuration.
type Config struct {
	Maps      maps.Config      `json:"maps"`
	Weather   weather.Config   `json:"weather"`
	Fleet     fleetapi.Config  `json:"fleet"`
	Rates     rates.Config     `json:"rates"`
	Store     store.Config     `json:"store"`
	Cache     cache.Config     `json:"cache"`
	Matrix    geomatrix.Config `json:"matrix"`
	Solver    solver.Config    `json:"solver"`
	Economics economics.Config `json:"economics"`
	Metrics   metrics.Config   `json:"metrics"`
	RunLog    RunLogConfig     `json:"runlog"`
	Scheduler SchedulerConfig  `json:"scheduler"`
}

// Load reads the configuration file, applies RO_-prefixed environment
// overrides and fills defaults.
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
	if err := k.Load(env.Provider("RO_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ro_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Maps.SetDefaults()
	cfg.Weather.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Rates.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Cache.SetDefaults()
	cfg.Matrix.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Economics.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.RunLog.SetDefaults()
	cfg.Scheduler.SetDefaults()
	if err := cfg.Economics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
