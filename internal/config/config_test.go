package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("httpAddr: %q", cfg.HTTPAddr)
	}
	if cfg.HeartbeatInterval() != 25*time.Second {
		t.Fatalf("heartbeat: %v", cfg.HeartbeatInterval())
	}
	if cfg.EventInterval() != 5*time.Second {
		t.Fatalf("event interval: %v", cfg.EventInterval())
	}
	if cfg.StreamToken != "" || cfg.ServiceToken != "" {
		t.Fatalf("auth should be opt-in")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beacon.json")
	body := `{"httpAddr":":9000","streamToken":"abc","heartbeatIntervalMs":1000}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.StreamToken != "abc" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// untouched keys keep defaults
	if cfg.EventIntervalMs != 5000 {
		t.Fatalf("eventIntervalMs: %d", cfg.EventIntervalMs)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("BEACON_HTTP_ADDR", ":7777")
	t.Setenv("BEACON_STREAM_TOKEN", "secret")
	t.Setenv("BEACON_EVENT_INTERVAL_MS", "250")
	t.Setenv("BEACON_PUBLISH_RATE", "12.5")
	t.Setenv("BEACON_HEARTBEAT_INTERVAL_MS", "not-a-number")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":7777" || cfg.StreamToken != "secret" {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
	if cfg.EventIntervalMs != 250 {
		t.Fatalf("eventIntervalMs: %d", cfg.EventIntervalMs)
	}
	if cfg.PublishRatePerSec != 12.5 {
		t.Fatalf("publishRate: %v", cfg.PublishRatePerSec)
	}
	// invalid numbers are ignored
	if cfg.HeartbeatIntervalMs != 25000 {
		t.Fatalf("heartbeatIntervalMs: %d", cfg.HeartbeatIntervalMs)
	}
}
