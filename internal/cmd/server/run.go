package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/beaconstream/beacon/internal/config"
	httpserver "github.com/beaconstream/beacon/internal/server/http"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// Options carries the resolved startup settings for the gateway.
type Options struct {
	// HTTPAddr overrides the configured listen address when non-empty.
	HTTPAddr string
	Config   config.Config
}

// Run starts the gateway HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	logpkg.RedirectStdLog(logger)

	addr := opts.HTTPAddr
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	logger.Info("starting beacon gateway",
		logpkg.Str("addr", addr),
		logpkg.Str("service", cfg.ServiceName),
		logpkg.Int("heartbeat_ms", cfg.HeartbeatIntervalMs),
		logpkg.Int("event_interval_ms", cfg.EventIntervalMs),
		logpkg.Bool("stream_auth", cfg.StreamToken != ""),
		logpkg.Bool("publish_auth", cfg.ServiceToken != ""),
	)

	s := httpserver.New(cfg, logger)
	defer s.Close()
	if err := s.ListenAndServe(sctx, addr); err != nil {
		return err
	}
	logger.Info("beacon gateway stopped")
	return nil
}
