package serverrun

import (
	"context"
	"testing"
	"time"

	"github.com/beaconstream/beacon/internal/config"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, Options{HTTPAddr: "127.0.0.1:0", Config: cfg}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancellation")
	}
}

func TestRunAddrOverride(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPAddr = "127.0.0.1:1" // would fail to bind
	cfg.LogLevel = "error"

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The override must win over the configured address.
	if err := Run(ctx, Options{HTTPAddr: "127.0.0.1:0", Config: cfg}); err != nil {
		t.Fatalf("run with override: %v", err)
	}
}
