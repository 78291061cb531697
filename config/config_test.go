package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `maps:
  base_url: "https://maps.example.com"
  api_key: "maps-key"
weather:
  base_url: "https://weather.example.com"
  api_key: "weather-key"
fleet:
  base_url: "https://fleet.example.com"
  api_token: "fleet-token"
rates:
  road_factor: 1.2
  locations:
    Lyon: {lat: 45.764, lon: 4.8357}
store:
  dsn: "postgres://routeopt@localhost/routeopt"
cache:
  addr: "localhost:6379"
  ttl_minutes: 30
matrix:
  avg_speed_kmh: 70
solver:
  time_budget_seconds: 10
economics:
  min_margin: 0.05
metrics:
  prometheus_enabled: true
runlog:
  enabled: true
  path: "runs.jsonl"
scheduler:
  enabled: true
  interval_minutes: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://maps.example.com", cfg.Maps.BaseURL)
	require.Equal(t, "weather-key", cfg.Weather.APIKey)
	require.Equal(t, "fleet-token", cfg.Fleet.APIToken)
	require.Equal(t, 1.2, cfg.Rates.RoadFactor)
	require.InDelta(t, 45.764, cfg.Rates.Locations["Lyon"].Lat, 1e-9)
	require.Equal(t, "postgres://routeopt@localhost/routeopt", cfg.Store.DSN)
	require.Equal(t, 30, cfg.Cache.TTLMinutes)
	require.Equal(t, 70.0, cfg.Matrix.AvgSpeedKmh)
	require.Equal(t, 10, cfg.Solver.TimeBudgetSeconds)
	require.Equal(t, 0.05, cfg.Economics.MinMargin)
	require.True(t, cfg.Metrics.PrometheusEnabled)
	require.Equal(t, "runs.jsonl", cfg.RunLog.Path)
	require.Equal(t, 15, cfg.Scheduler.IntervalMinutes)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `fleet:
  base_url: "https://fleet.example.com"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 30, cfg.Maps.TimeoutSeconds)
	require.Equal(t, 60.0, cfg.Matrix.AvgSpeedKmh)
	require.Equal(t, 1440, cfg.Matrix.HorizonMin)
	require.Equal(t, 200, cfg.Matrix.WindowHighMin)
	require.Equal(t, 500, cfg.Matrix.WindowMediumMin)
	require.Equal(t, 1000, cfg.Matrix.WindowLowMin)
	require.Equal(t, 30, cfg.Solver.TimeBudgetSeconds)
	require.Equal(t, 0.10, cfg.Economics.BaseRatePerKg)
	require.Equal(t, "2112", cfg.Metrics.PrometheusPort)
	require.Equal(t, 1.3, cfg.Rates.RoadFactor)
	require.Equal(t, 60, cfg.Scheduler.IntervalMinutes)
	require.Equal(t, "optimization.log", cfg.RunLog.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `solver:
  time_budget_seconds: 10
`)
	t.Setenv("RO_SOLVER__TIME_BUDGET_SECONDS", "5")
	t.Setenv("RO_MAPS__API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Solver.TimeBudgetSeconds)
	require.Equal(t, "from-env", cfg.Maps.APIKey)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"economics": {"min_margin": 0.1}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.1, cfg.Economics.MinMargin)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "a = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadMargin(t *testing.T) {
	path := writeConfig(t, "config.yaml", `economics:
  min_margin: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
}
