package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `redis:
  url: "redis://localhost:6379/0"
  session_ttl_seconds: 1800
queue:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic: "sms/out"
  qos: 1
translator:
  endpoint: "https://translator.example.com"
  api_key: "key"
  region: "westus"
  default_language: "en"
match:
  radius_miles: 25
  dispatch_parallelism: 8
metrics:
  sinks:
    - type: "nop"
prometheus_port: ":2112"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"redis.url", cfg.Redis.URL, "redis://localhost:6379/0"},
		{"redis.session_ttl_seconds", cfg.Redis.SessionTTLSeconds, 1800},
		{"queue.broker", cfg.Queue.Broker, "tcp://localhost:1883"},
		{"queue.client_id", cfg.Queue.ClientID, "cli"},
		{"queue.topic", cfg.Queue.Topic, "sms/out"},
		{"queue.qos", cfg.Queue.QoS, byte(1)},
		{"translator.endpoint", cfg.Translator.Endpoint, "https://translator.example.com"},
		{"translator.region", cfg.Translator.Region, "westus"},
		{"match.radius_miles", cfg.Match.RadiusMiles, 25.0},
		{"match.dispatch_parallelism", cfg.Match.DispatchParallelism, 8},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_port", cfg.PrometheusPort, ":2112"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"queue": {"broker": "tcp://localhost:1883", "client_id": "cli"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Match.RadiusMiles != 50 {
		t.Errorf("radius default not applied: %v", cfg.Match.RadiusMiles)
	}
	if cfg.Match.DispatchParallelism != 4 {
		t.Errorf("parallelism default not applied: %v", cfg.Match.DispatchParallelism)
	}
	if cfg.Queue.Topic != "notifications/outgoing" {
		t.Errorf("topic default not applied: %v", cfg.Queue.Topic)
	}
	if cfg.Translator.DefaultLanguage != "en" {
		t.Errorf("language default not applied: %v", cfg.Translator.DefaultLanguage)
	}
	if cfg.Redis.SessionTTLSeconds != 3600 {
		t.Errorf("session ttl default not applied: %v", cfg.Redis.SessionTTLSeconds)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
