package config

import (
	"encoding/json"
	"os"
	"time"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// HTTPAddr is the listen address for the gateway HTTP server.
	HTTPAddr string `json:"httpAddr"`
	// ServiceName identifies this process in health responses and logs.
	ServiceName string `json:"serviceName"`

	// StreamToken is the shared secret required as a bearer credential on
	// stream endpoints. Empty disables stream authorization.
	StreamToken string `json:"streamToken"`
	// ServiceToken is the shared secret required in X-Service-Token on the
	// publish endpoint. Empty disables publish authorization.
	ServiceToken string `json:"serviceToken"`

	// HeartbeatIntervalMs is the idle interval after which a session emits a
	// heartbeat comment frame.
	HeartbeatIntervalMs int `json:"heartbeatIntervalMs"`
	// EventIntervalMs is the pause between synthesized events.
	EventIntervalMs int `json:"eventIntervalMs"`
	// RetryHintMs is the reconnection delay advice carried on data frames.
	RetryHintMs int `json:"retryHintMs"`
	// SubscriberBuffer is the per-subscriber queue length in the hub.
	SubscriberBuffer int `json:"subscriberBuffer"`

	// PublishRatePerSec limits accepted publishes per second. Zero or
	// negative disables limiting.
	PublishRatePerSec float64 `json:"publishRatePerSec"`
	// PublishBurst is the burst allowance for the publish rate limiter.
	PublishBurst int `json:"publishBurst"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:            ":8000",
		ServiceName:         "beacon-gateway",
		HeartbeatIntervalMs: 25000,
		EventIntervalMs:     5000,
		RetryHintMs:         5000,
		SubscriberBuffer:    64,
		PublishBurst:        1,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HeartbeatInterval returns the heartbeat idle interval as a duration.
func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalMs) * time.Millisecond
}

// EventInterval returns the synthesizer pause as a duration.
func (c Config) EventInterval() time.Duration {
	return time.Duration(c.EventIntervalMs) * time.Millisecond
}
