package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `solver:
  backend: "tableau"
  max_iterations: 200
  rule: "bland"
  fallback: "gonum"
runlog:
  backend: "sqlite"
  path: "/tmp/runs.db"
metrics:
  sinks:
    - type: "nop"
  prometheus_port: ":9100"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  qos: 1
api:
  address: ":9000"
  token: "secret"
  shutdown_timeout: "2s"
logging:
  level: "debug"
  format: "console"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"solver.backend", cfg.Solver.Backend, "tableau"},
		{"solver.max_iterations", cfg.Solver.MaxIterations, 200},
		{"solver.rule", cfg.Solver.Rule, "bland"},
		{"solver.fallback", cfg.Solver.Fallback, "gonum"},
		{"runlog.backend", cfg.RunLog.Backend, "sqlite"},
		{"runlog.path", cfg.RunLog.Path, "/tmp/runs.db"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic_prefix default", cfg.MQTT.TopicPrefix, "blendplan/plans"},
		{"api.address", cfg.API.Address, ":9000"},
		{"api.token", cfg.API.Token, "secret"},
		{"api.shutdown_timeout", cfg.API.ShutdownTimeout, 2 * time.Second},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "console"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"solver":{"backend":"gonum"},"runlog":{"backend":"none"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Solver.Backend != "gonum" || cfg.RunLog.Backend != "none" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "solver:\n  max_iterations: 10\n")
	t.Setenv("K_SOLVER__MAX_ITERATIONS", "50")
	t.Setenv("K_API__TOKEN", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Solver.MaxIterations != 50 {
		t.Fatalf("expected env override, got %d", cfg.Solver.MaxIterations)
	}
	if cfg.API.Token != "from-env" {
		t.Fatalf("expected token from env, got %q", cfg.API.Token)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.ini", "x=1")); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
	bad := []string{
		"solver:\n  backend: simplex\n",
		"solver:\n  backend: gonum\n  fallback: gonum\n",
		"runlog:\n  backend: postgres\n",
		"mqtt:\n  enabled: true\n",
		"logging:\n  level: verbose\n",
		"sentry:\n  traces_sample_rate: 2\n",
	}
	for _, data := range bad {
		if _, err := Load(writeConfig(t, "config.yaml", data)); err == nil {
			t.Errorf("expected validation error for %q", data)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Solver.Backend != "tableau" || cfg.API.Address != ":8080" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
