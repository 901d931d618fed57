package config

import (
	"os"
	"strconv"
)

// FromEnv overlays BEACON_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("BEACON_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("BEACON_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("BEACON_STREAM_TOKEN"); v != "" {
		cfg.StreamToken = v
	}
	if v := os.Getenv("BEACON_SERVICE_TOKEN"); v != "" {
		cfg.ServiceToken = v
	}
	if v := os.Getenv("BEACON_HEARTBEAT_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HeartbeatIntervalMs = n
		}
	}
	if v := os.Getenv("BEACON_EVENT_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.EventIntervalMs = n
		}
	}
	if v := os.Getenv("BEACON_RETRY_HINT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetryHintMs = n
		}
	}
	if v := os.Getenv("BEACON_SUBSCRIBER_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SubscriberBuffer = n
		}
	}
	if v := os.Getenv("BEACON_PUBLISH_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.PublishRatePerSec = f
		}
	}
	if v := os.Getenv("BEACON_PUBLISH_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PublishBurst = n
		}
	}
	if v := os.Getenv("BEACON_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BEACON_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
